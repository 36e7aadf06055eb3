// Command amwjson converts an amw markup document to JSON.
//
// Usage:
//
//	amwjson [-json] [-indent n] [-o out.json] [input]
//
// Without an input path it reads stdin. With -o the output file is
// written atomically. -json switches the input grammar to JSON, which
// turns the tool into a comment-stripping JSON normalizer.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/renameio"

	"github.com/petbrain/amw/pkg/amw"
	"github.com/petbrain/amw/pkg/value"
)

func main() {
	var (
		outPath  = flag.String("o", "", "output file (default stdout)")
		jsonMode = flag.Bool("json", false, "parse the input as JSON")
		indent   = flag.Int("indent", 2, "JSON indent width, 0 for compact")
	)
	flag.Parse()

	var in io.Reader = os.Stdin
	name := "<stdin>"
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			fail(err)
		}
		defer f.Close()
		in = f
		name = flag.Arg(0)
	}

	var v value.Value
	var err error
	if *jsonMode {
		v, err = amw.ParseJSONReader(in)
	} else {
		v, err = amw.ParseReader(in)
	}
	if err != nil {
		fail(fmt.Errorf("%s: %w", name, err))
	}

	data, err := marshal(amw.Decode(v), *indent)
	if err != nil {
		fail(err)
	}
	data = append(data, '\n')

	if *outPath == "" {
		os.Stdout.Write(data)
		return
	}
	if err := renameio.WriteFile(*outPath, data, 0644); err != nil {
		fail(err)
	}
}

func marshal(x any, indent int) ([]byte, error) {
	x = jsonable(x)
	if indent <= 0 {
		return json.Marshal(x)
	}
	return json.MarshalIndent(x, "", strings.Repeat(" ", indent))
}

// jsonable rewrites map[any]any keys to strings so the result can be
// marshaled by encoding/json.
func jsonable(x any) any {
	switch t := x.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[fmt.Sprint(k)] = jsonable(v)
		}
		return out
	case map[string]any:
		for k, v := range t {
			t[k] = jsonable(v)
		}
		return t
	case []any:
		for i, v := range t {
			t[i] = jsonable(v)
		}
		return t
	}
	return x
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "amwjson:", err)
	os.Exit(1)
}
