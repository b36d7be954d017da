package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "dashboard-api",
	Short: "Operational dashboard for the video generation pipeline",
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(migrateCmd)
}
