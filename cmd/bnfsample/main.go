// Command bnfsample is a small interactive driver around the Sampler
// façade: load a grammar and a vocabulary, then feed tokens typed on
// stdin and watch how the admissible set narrows. It plays the same role
// for this module that cmd/langlang/main.go plays for langlang: ambient
// tooling around the library, not itself part of the core engine.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	bnfsampler "github.com/Dan-wanna-M/bnf-sampler"
)

type args struct {
	grammarPath *string
	vocabPath   *string
	configPath  *string
	interactive *bool
}

func readArgs() *args {
	a := &args{
		grammarPath: pflag.String("grammar", "", "path to the BNF grammar file"),
		vocabPath:   pflag.String("vocab", "", "path to the newline-delimited vocabulary file"),
		configPath:  pflag.String("config", "", "path to an optional TOML config file"),
		interactive: pflag.Bool("interactive", true, "read tokens from stdin and print the admissible set after each one"),
	}
	pflag.Parse()
	return a
}

func loadConfig(path string) (*bnfsampler.Config, error) {
	cfg := bnfsampler.NewConfig()
	if path == "" {
		return cfg, nil
	}
	raw := map[string]interface{}{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	for key, val := range raw {
		switch v := val.(type) {
		case bool:
			cfg.SetBool(key, v)
		case int64:
			cfg.SetInt(key, int(v))
		case string:
			cfg.SetString(key, v)
		default:
			return nil, fmt.Errorf("config key %q has unsupported type %T", key, val)
		}
	}
	return cfg, nil
}

func main() {
	a := readArgs()
	if *a.grammarPath == "" || *a.vocabPath == "" {
		log.Fatal("both --grammar and --vocab are required")
	}

	cfg, err := loadConfig(*a.configPath)
	if err != nil {
		log.Fatal(err)
	}

	grammarSrc, err := os.ReadFile(*a.grammarPath)
	if err != nil {
		log.Fatal(err)
	}
	grammar, err := bnfsampler.Compile(string(grammarSrc), cfg)
	if err != nil {
		log.Fatal(err)
	}

	vocabFile, err := os.Open(*a.vocabPath)
	if err != nil {
		log.Fatal(err)
	}
	defer vocabFile.Close()
	vocab, err := bnfsampler.LoadVocabulary(vocabFile, cfg)
	if err != nil {
		log.Fatal(err)
	}

	sampler := bnfsampler.New(grammar, vocab, cfg)
	log.Printf("sampler %s ready, %d vocabulary tokens", sampler.ID(), vocab.Len())

	if !*a.interactive {
		return
	}
	runREPL(sampler, vocab)
}

// runREPL reads one integer token id per line from stdin, commits it, and
// prints the resulting admissible token ids.
func runREPL(sampler *bnfsampler.Sampler, vocab *bnfsampler.Vocabulary) {
	printAdmissible(sampler, vocab)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "expected a token id, got %q: %v\n", line, err)
			continue
		}
		if err := sampler.AcceptToken(id); err != nil {
			if bnfsampler.IsFatal(err) {
				log.Fatalf("accept_token(%d): %v", id, err)
			}
			fmt.Fprintf(os.Stderr, "accept_token(%d) failed: %v\n", id, err)
			continue
		}
		if sampler.IsTerminated() {
			fmt.Println("terminated")
			return
		}
		printAdmissible(sampler, vocab)
	}
}

func printAdmissible(sampler *bnfsampler.Sampler, vocab *bnfsampler.Vocabulary) {
	set, err := sampler.AllPossibleTokens()
	if err != nil {
		log.Fatal(err)
	}
	ids := set.Slice()
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = fmt.Sprintf("%d:%q", id, vocab.Tokens[id])
	}
	fmt.Printf("admissible: %s\n", strings.Join(labels, " "))
}
