package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the job scheduler",
	Long: `Starts the scheduler daemon or manages its jobs.

Registered jobs:
- market_data: every 15 minutes (CoinGecko, Fear & Greed, Yahoo Finance)
- scores: hourly, 2 minutes past (category score snapshot)
- report_daily / report_weekly / report_monthly: AI narratives
- maintenance: daily retention cleanup

Example:
  go run ./cmd/tradedeck scheduler start
  go run ./cmd/tradedeck scheduler list
  go run ./cmd/tradedeck scheduler run market_data`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job immediately and wait for it",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job execution statistics",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	sched, err := deps.newScheduler(nil)
	if err != nil {
		return err
	}

	sched.Start()

	fmt.Println("Scheduler started")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	sched, err := deps.newScheduler(nil)
	if err != nil {
		return err
	}

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	sched, err := deps.newScheduler(nil)
	if err != nil {
		return err
	}

	fmt.Printf("Running job: %s\n", jobName)

	if err := sched.RunJobAndWait(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Println("Job completed")
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	sched, err := deps.newScheduler(nil)
	if err != nil {
		return err
	}

	stats := sched.GetJobStats()

	fmt.Println("Job Statistics:")
	fmt.Println()

	for jobName, stat := range stats {
		fmt.Printf("%s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)

		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}
		if stat.LastSuccess != nil {
			fmt.Printf("   Last Success: %s\n", stat.LastSuccess.Format("2006-01-02 15:04:05"))
		}
		if stat.LastFailure != nil {
			fmt.Printf("   Last Failure: %s\n", stat.LastFailure.Format("2006-01-02 15:04:05"))
		}

		fmt.Println()
	}

	return nil
}
