package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "golfsim",
	Short: "Simulates a golf course food and beverage delivery service",
	Long: `golfsim replays a day of on-course food and beverage orders through a
delivery-runner dispatch model on a virtual clock. It produces per-order
delivery stats, failure records and a timestamped activity log, for sizing
runner crews and menu prep capacity at fictional golf courses.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runScenario(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")

	flags := rootCmd.PersistentFlags()
	flags.Int("seed", 42, "Random seed for scenario generation")
	flags.Int("num-runners", 1, "Number of delivery runners")
	flags.Float64("runner-speed-mps", 6.0, "Runner cart speed in metres per second")
	flags.Float64("prep-time-s", 600, "Food preparation time in seconds")
	flags.Float64("order-failure-minutes", 60, "Minutes an order may wait in the queue before failing")
	flags.String("orders-file", "", "Replay a pre-generated order stream instead of generating one")
	flags.String("travel-times-file", "", "Node-indexed travel time table")
	flags.String("hole-distances-file", "", "Hole-indexed distance table")
	flags.String("output-format", "csv", "File output format: csv, json, parquet or console")
	flags.String("output-path", "output", "Directory for run outputs")
	flags.Bool("kafka-enabled", false, "Enable Kafka output")
	flags.String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	flags.Bool("postgres-enabled", false, "Persist the run to Postgres")

	viper.BindPFlag("seed", flags.Lookup("seed"))
	viper.BindPFlag("num_runners", flags.Lookup("num-runners"))
	viper.BindPFlag("runner_speed_mps", flags.Lookup("runner-speed-mps"))
	viper.BindPFlag("prep_time_s", flags.Lookup("prep-time-s"))
	viper.BindPFlag("order_failure_minutes", flags.Lookup("order-failure-minutes"))
	viper.BindPFlag("orders_file", flags.Lookup("orders-file"))
	viper.BindPFlag("travel_times_file", flags.Lookup("travel-times-file"))
	viper.BindPFlag("hole_distances_file", flags.Lookup("hole-distances-file"))
	viper.BindPFlag("output_format", flags.Lookup("output-format"))
	viper.BindPFlag("output_path", flags.Lookup("output-path"))
	viper.BindPFlag("kafka_enabled", flags.Lookup("kafka-enabled"))
	viper.BindPFlag("kafka_broker_list", flags.Lookup("kafka-broker-list"))
	viper.BindPFlag("postgres_enabled", flags.Lookup("postgres-enabled"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
