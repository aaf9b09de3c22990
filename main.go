package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/redstone/ast"
	"github.com/pontaoski/redstone/interp"
	"github.com/pontaoski/redstone/lexer"
	"github.com/pontaoski/redstone/parser"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/redstone", "main")

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func cyan(s string) string  { return "\x1b[36m" + s + "\x1b[0m" }
func gray(s string) string  { return "\x1b[90m" + s + "\x1b[0m" }

// loadSource reads a script and parses it with the active keyword table.
func loadSource(file string, kw lexer.Keywords) (*ast.Program, error) {
	plog.Infof("loading %s", file)

	data, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}

	prog, err := parser.ParseSource(string(data), file, kw)
	if err != nil {
		return nil, err
	}
	return prog, nil
}

func resolveEntry(c *cli.Context) (string, error) {
	if file := c.Args().First(); file != "" {
		return file, nil
	}

	doc, err := readManifest(manifestFile)
	if err != nil {
		return "", fmt.Errorf("no file given and no usable %s: %w", manifestFile, err)
	}
	if doc.Entry == "" {
		return "", fmt.Errorf("%s has no entry", manifestFile)
	}
	return doc.Entry, nil
}

func runFile(c *cli.Context) error {
	kw, err := loadKeywords(c.String("keywords"))
	if err != nil {
		return err
	}

	file, err := resolveEntry(c)
	if err != nil {
		return err
	}

	prog, err := loadSource(file, kw)
	if err != nil {
		return err
	}

	if c.Bool("show-ast") {
		repr.Println(prog)
	}

	if err := interp.Validate(prog); err != nil {
		return tracerr.Wrap(err)
	}

	_, err = interp.New().WithKeywords(kw).EvaluateProgram(prog, interp.NewGlobalScope(os.Stdout))
	return err
}

func main() {
	app := &cli.App{
		Name:  "redstone",
		Usage: "redstone script interpreter",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "keywords",
				Usage: "YAML file mapping keyword roles to spellings",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "WARNING",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print errors with stack frames",
				Value: false,
			},
		},
		Before: func(c *cli.Context) error {
			capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, false))
			level, err := capnslog.ParseLevel(strings.ToUpper(c.String("log-level")))
			if err != nil {
				return err
			}
			capnslog.SetGlobalLogLevel(level)
			return nil
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			if c.Bool("trace") {
				tracerr.PrintSourceColor(err)
			} else {
				fmt.Fprintln(os.Stderr, red("error: "+err.Error()))
			}
			os.Exit(1)
		},
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "init a directory",
				ArgsUsage: "<package>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "entry",
						Value: "main.rsd",
					},
				},
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return fmt.Errorf("no package name provided")
					}
					return writeManifest(manifestFile, redstoneModule{
						Package:  name,
						Entry:    c.String("entry"),
						Keywords: map[string]string{},
					})
				},
			},
			{
				Name:      "run",
				Usage:     "run a script",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "show-ast",
						Value: false,
					},
				},
				Action: runFile,
			},
			{
				Name:  "repl",
				Usage: "start an interactive shell",
				Action: func(c *cli.Context) error {
					kw, err := loadKeywords(c.String("keywords"))
					if err != nil {
						return err
					}
					return newRepl(kw, os.Stdout).loop()
				},
			},
			{
				Name:      "tokens",
				Usage:     "print the tokens of a script",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					kw, err := loadKeywords(c.String("keywords"))
					if err != nil {
						return err
					}
					data, err := ioutil.ReadFile(c.Args().First())
					if err != nil {
						return err
					}
					tokens, err := lexer.TokenizeFile(string(data), c.Args().First(), kw)
					if err != nil {
						return err
					}
					for _, tok := range tokens {
						fmt.Printf("%s\t%s\n", tok.Location.From, tok)
					}
					return nil
				},
			},
			{
				Name:      "ast",
				Usage:     "dump the syntax tree of a script",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "print the tree as parenthesized source",
						Value: false,
					},
				},
				Action: func(c *cli.Context) error {
					kw, err := loadKeywords(c.String("keywords"))
					if err != nil {
						return err
					}
					prog, err := loadSource(c.Args().First(), kw)
					if err != nil {
						return err
					}
					if c.Bool("pretty") {
						fmt.Print(prog.String())
						return nil
					}
					repr.Println(prog)
					return nil
				},
			},
		},
	}
	app.Run(os.Args)
}
