package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/tastebite/checkout/config"
)

const versionTimeFormat = "20060102150405"

func main() {
	rootCmd := &cobra.Command{Use: "migrate"}
	rootCmd.AddCommand(
		createMigrationCommand(),
		migrateUpCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}

func createMigrationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-create [name]",
		Short: "create sql migration files",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			conf := config.FromEnv()
			version := time.Now().Format(versionTimeFormat)
			name := args[0]
			up := fmt.Sprintf("%s/%s_%s.up.sql", conf.MigrationDir, version, name)
			down := fmt.Sprintf("%s/%s_%s.down.sql", conf.MigrationDir, version, name)

			if err := os.WriteFile(up, []byte{}, 0644); err != nil {
				panic(err)
			}
			if err := os.WriteFile(down, []byte{}, 0644); err != nil {
				panic(err)
			}

			fmt.Println("Created SQL up script:", up)
			fmt.Println("Created SQL down script:", down)
		},
	}
}

func migrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-up",
		Short: "migrate all the way up",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			conf := config.FromEnv()
			m, err := migrate.New(
				fmt.Sprintf("file://%s", conf.MigrationDir),
				fmt.Sprintf("mysql://%s", conf.MySQLDSN),
			)
			if err != nil {
				panic(err)
			}

			err = m.Up()
			if err == migrate.ErrNoChange {
				fmt.Println("No change in migration")
				return
			}
			if err != nil {
				panic(err)
			}
			fmt.Println("Migrated up")
		},
	}
}
