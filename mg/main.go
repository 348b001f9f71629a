// Command mg manages a moneyguru document from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/addone/moneyguru/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion. It must run
// before flag.Parse: when invoked by the shell it prints candidates and
// exits.
func completion() {
	periods := predict.Set{"day", "week", "month", "quarter", "year"}
	repeats := predict.Set{"daily", "weekly", "monthly", "yearly", "weekday", "weekday_last"}
	types := predict.Set{"asset", "liability", "income", "expense"}
	scopes := predict.Set{"local", "global", "cancel"}

	rangeFlags := func(extra map[string]complete.Predictor) map[string]complete.Predictor {
		flags := map[string]complete.Predictor{
			"p": periods,
			"s": predict.Something,
			"d": predict.Something,
		}
		for name, p := range extra {
			flags[name] = p
		}
		return flags
	}

	mg := &complete.Command{
		Flags: map[string]complete.Predictor{
			"f": predict.Files("*.jsonl"),
			"C": predict.Dirs("*"),
			"v": predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"init": {Flags: map[string]complete.Predictor{
				"c": predict.Something, "force": predict.Nothing,
			}},
			"fmt": {Flags: map[string]complete.Predictor{
				"o": predict.Files("*.jsonl"),
			}},
			"accounts": {},
			"new-account": {Flags: map[string]complete.Predictor{
				"a": predict.Something, "t": types, "c": predict.Something, "g": predict.Something,
			}},
			"edit-account": {Flags: map[string]complete.Predictor{
				"a": predict.Something, "rename": predict.Something, "t": types,
				"c": predict.Something, "g": predict.Something, "inactive": predict.Set{"true", "false"},
			}},
			"delete-account": {Flags: map[string]complete.Predictor{
				"a": predict.Something, "into": predict.Something,
			}},
			"register": {Flags: rangeFlags(map[string]complete.Predictor{"a": predict.Something})},
			"add": {Flags: map[string]complete.Predictor{
				"d": predict.Something, "a": predict.Something, "c": predict.Something,
				"from": predict.Something, "to": predict.Something, "desc": predict.Something,
				"payee": predict.Something, "n": predict.Something, "m": predict.Something,
			}},
			"tx": {Flags: rangeFlags(map[string]complete.Predictor{
				"q": predict.Something, "head": predict.Something, "tail": predict.Something,
			})},
			"delete-tx": {Flags: map[string]complete.Predictor{
				"d": predict.Something, "q": predict.Something, "scope": scopes,
			}},
			"schedules": {Flags: rangeFlags(nil)},
			"new-schedule": {Flags: map[string]complete.Predictor{
				"d": predict.Something, "a": predict.Something, "c": predict.Something,
				"from": predict.Something, "to": predict.Something, "desc": predict.Something,
				"repeat": repeats, "every": predict.Something, "stop": predict.Something,
			}},
			"delete-schedule": {Flags: map[string]complete.Predictor{
				"id": predict.Something,
			}},
			"balances": {Flags: map[string]complete.Predictor{
				"d": predict.Something,
			}},
			"cashflow": {Flags: rangeFlags(nil)},
			"networth": {Flags: rangeFlags(nil)},
			"query":    {Args: predict.Something},
			"rate": {Flags: map[string]complete.Predictor{
				"d": predict.Something, "to": predict.Something,
			}, Args: predict.Something},
			"topic": {Args: predict.Something},
		},
	}
	mg.Complete("mg")
}

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)
	flag.Parse()

	os.Exit(run(commander))
}

// run keeps the deferred cleanup ahead of os.Exit.
func run(commander *subcommands.Commander) int {
	if err := cmd.Setup(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return int(subcommands.ExitFailure)
	}
	defer cmd.Cleanup()
	return int(commander.Execute(context.Background()))
}
