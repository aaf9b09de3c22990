package main

import (
	"io/ioutil"
	"os"

	"github.com/pontaoski/redstone/lexer"
	"gopkg.in/yaml.v2"
)

const manifestFile = "redstone.yaml"

type redstoneModule struct {
	Package  string            `yaml:"package"`
	Entry    string            `yaml:"entry"`
	Keywords map[string]string `yaml:"keywords"`
}

func readManifest(path string) (redstoneModule, error) {
	var doc redstoneModule

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return doc, err
	}

	err = yaml.UnmarshalStrict(data, &doc)
	return doc, err
}

func writeManifest(path string, doc redstoneModule) error {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(path, out, 0644)
}

// loadKeywords builds the keyword table from the defaults, the keywords
// section of the manifest in the working directory, and then the file given
// with --keywords, later sources winning.
func loadKeywords(file string) (lexer.Keywords, error) {
	kw := lexer.DefaultKeywords()

	doc, err := readManifest(manifestFile)
	switch {
	case err == nil:
		if kw, err = kw.Override(doc.Keywords); err != nil {
			return nil, err
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if file == "" {
		return kw, nil
	}

	data, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	overrides := map[string]string{}
	if err := yaml.UnmarshalStrict(data, &overrides); err != nil {
		return nil, err
	}
	return kw.Override(overrides)
}
