package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type SumDecls struct {
	Sums []*Sum `@@*`
}

// Sum declares a closed interface and the node types that belong to it.
//
//	sum Expression = Binary | Unary | Call ;
type Sum struct {
	Name     string   `"sum" @Ident "="`
	Variants []string `@Ident ("|" @Ident)* ";"`
}

func GenerateDecls(source, pkgname string, t *SumDecls) string {
	f := NewFile(pkgname)
	f.HeaderComment(fmt.Sprintf("Code generated by adtGen from %s. DO NOT EDIT.", source))

	for _, sum := range t.Sums {
		marker := "is_" + sum.Name

		f.Type().Id(sum.Name).Interface(
			Id(marker).Params(),
		)

		for _, it := range sum.Variants {
			f.Func().Params(Id("v").Id(it)).Id(marker).Params().Block()
		}
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: adtGen <in.adt> <out.go> <package>")
		os.Exit(2)
	}

	parser := participle.MustBuild(&SumDecls{})

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	decls := SumDecls{}
	err = parser.ParseBytes(inData, &decls)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateDecls(filepath.Base(in), pkgname, &decls)), 0644)
	if err != nil {
		panic(err)
	}
}
