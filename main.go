package main

import (
	"fmt"
	"os"

	"fjacquet/statement-analyzer/cmd/analyze"
	"fjacquet/statement-analyzer/cmd/batch"
	"fjacquet/statement-analyzer/cmd/categorize"
	"fjacquet/statement-analyzer/cmd/extract"
	"fjacquet/statement-analyzer/cmd/root"
	"fjacquet/statement-analyzer/cmd/serve"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(extract.Cmd)
	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
