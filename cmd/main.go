/*
Copyright 2025 InsureDesk Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	insuredesk "github.com/insuredesk/insuredesk"
	"github.com/insuredesk/insuredesk/config"
	"github.com/insuredesk/insuredesk/database"
	"github.com/insuredesk/insuredesk/internal/notification"
)

// CLI encapsulates the root Cobra command.
type CLI struct {
	cmd *cobra.Command
}

// deskInstance holds the service instance and its configuration, shared
// across subcommands.
type deskInstance struct {
	desk *insuredesk.InsureDesk
	cnf  *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the service instance
// before running any command.
func preRun(app *deskInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("insuredesk.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newDesk, err := setupInsureDesk(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.desk = newDesk
		app.cnf = cnf

		return nil
	}
}

// setupInsureDesk creates a service instance backed by the configured
// data source.
func setupInsureDesk(cfg *config.Configuration) (*insuredesk.InsureDesk, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newDesk, err := insuredesk.NewInsureDesk(db)
	if err != nil {
		return nil, fmt.Errorf("error creating insuredesk: %v", err)
	}
	return newDesk, nil
}

// NewCLI creates the command-line interface for the InsureDesk application.
func NewCLI() *CLI {
	var configFile string
	b := &deskInstance{}

	var rootCmd = &cobra.Command{
		Use:   "insuredesk",
		Short: "Insurance lead and reminder call backend",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./insuredesk.json", "Configuration file for insuredesk")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(serverCommands(b))
	rootCmd.AddCommand(workerCommands(b))
	rootCmd.AddCommand(migrateCommands(b))

	return &CLI{cmd: rootCmd}
}

func (w CLI) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
