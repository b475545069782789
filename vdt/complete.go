package main

import (
	"flag"

	"github.com/etnz/vdatax/docs"
	"github.com/etnz/vdatax/importer"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the commands and flags of commander for shell
// completion. Install it with COMP_INSTALL=1 vdt.
func completion(commander *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{},
	}
	flag.CommandLine.VisitAll(func(f *flag.Flag) { root.Flags[f.Name] = predictFlag(f) })

	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) { sub.Flags[f.Name] = predictFlag(f) })
		root.Sub[c.Name()] = sub
	})
	if c, ok := root.Sub["import"]; ok {
		c.Args = predict.Files("*")
	}
	if c, ok := root.Sub["topic"]; ok {
		topics, _ := docs.GetAllTopics()
		c.Args = predict.Set(topics)
	}
	if c, ok := root.Sub["help"]; ok {
		var names predict.Set
		for name := range root.Sub {
			names = append(names, name)
		}
		c.Args = names
	}
	return root
}

func predictFlag(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch f.Name {
	case "ledger-file":
		return predict.Files("*.jsonl")
	case "mapping":
		return predict.Files("*.json")
	case "env-file":
		return predict.Files("*")
	case "source":
		return predict.Set(importer.Sources())
	}
	return predict.Something
}
