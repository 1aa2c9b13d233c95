package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/synthpop/family"
	"github.com/katalvlaran/synthpop/logger"
	"github.com/katalvlaran/synthpop/metrics"
	"github.com/katalvlaran/synthpop/store"
	"github.com/katalvlaran/synthpop/synthesis"
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Build the base population and form family units",
	Long: `Build the configured base population, form every family type in order
(couples, couples with children, one-parent, other) and print a summary.

Flags override the configuration file.`,
	RunE: runForm,
}

func init() {
	formCmd.Flags().Int64("seed", 0, "random seed (0 keeps the configured seed)")
	formCmd.Flags().Int("attempts", 0, "independent attempts to try (0 keeps the configured value)")
	formCmd.Flags().String("store", "", "SQLite file to save the run to")
	formCmd.Flags().String("metrics-file", "", "write run metrics to this file in Prometheus text format")
}

func runForm(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		cfg.Seed = seed
	}
	if attempts, _ := cmd.Flags().GetInt("attempts"); attempts > 0 {
		cfg.Attempts = attempts
	}
	if path, _ := cmd.Flags().GetString("store"); path != "" {
		cfg.Store.Path = path
	}

	plan, err := synthesis.PlanFromConfig(cfg)
	if err != nil {
		return err
	}
	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)
	res, err := synthesis.New(plan, synthesis.WithLogger(log), synthesis.WithMetrics(m)).Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, pterm.Bold.Sprintf("Run %s (seed %d, attempt %d)", res.RunID, res.Seed, res.Attempt))
	s := synthesis.Summarize(res.Registry, res.Families)
	counters, err := metricsTable(promReg)
	if err != nil {
		return err
	}
	for _, data := range []pterm.TableData{familyTable(s), statusTable(s), counters} {
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, table)
	}

	if path, _ := cmd.Flags().GetString("metrics-file"); path != "" {
		if err := metrics.WriteFile(promReg, path); err != nil {
			return err
		}
		log.Infow("metrics written", logger.FieldRunID, res.RunID, logger.FieldPath, path)
	}

	if cfg.Store.Path == "" {
		return nil
	}
	st, err := store.Open(ctx, cfg.Store.Path, log)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.SaveFamilies(ctx, store.Run{ID: res.RunID, Seed: res.Seed, Attempt: res.Attempt}, res.Families); err != nil {
		return err
	}
	log.Infow("saved", logger.FieldRunID, res.RunID, logger.FieldPath, cfg.Store.Path)
	return nil
}

func familyTable(s synthesis.Summary) pterm.TableData {
	data := pterm.TableData{{"Family type", "Units"}}
	for _, t := range family.Types() {
		data = append(data, []string{t.String(), strconv.Itoa(s.Families[t])})
	}
	return append(data,
		[]string{"members", strconv.Itoa(s.Members)},
		[]string{"unassigned persons", strconv.Itoa(s.Unassigned)},
	)
}

func statusTable(s synthesis.Summary) pterm.TableData {
	data := pterm.TableData{{"Status", "Male", "Female"}}
	for _, c := range s.Statuses {
		if c.Male+c.Female == 0 {
			continue
		}
		data = append(data, []string{c.Status.String(), strconv.Itoa(c.Male), strconv.Itoa(c.Female)})
	}
	return data
}

func metricsTable(g prometheus.Gatherer) (pterm.TableData, error) {
	samples, err := metrics.Counters(g)
	if err != nil {
		return nil, err
	}
	data := pterm.TableData{{"Metric", "Labels", "Value"}}
	for _, smp := range samples {
		data = append(data, []string{smp.Name, smp.Labels, strconv.FormatFloat(smp.Value, 'f', -1, 64)})
	}
	return data, nil
}
