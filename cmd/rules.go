package cmd

import (
	"context"
	"flag"

	"github.com/etnz/vdatax"
	"github.com/etnz/vdatax/renderer"
	"github.com/google/subcommands"
)

type rulesCmd struct {
	json bool
}

func (*rulesCmd) Name() string     { return "rules" }
func (*rulesCmd) Synopsis() string { return "list the tax rules cited in reports" }
func (*rulesCmd) Usage() string {
	return `vdt rules [-json]

  Lists the law map used to explain every report line.
`
}

func (c *rulesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the rules as JSON")
}

func (c *rulesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.json {
		if err := printJSON(vdatax.Rules()); err != nil {
			return fail("Error writing rules: %v", err)
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RulesMarkdown(vdatax.Rules()))
	return subcommands.ExitSuccess
}
