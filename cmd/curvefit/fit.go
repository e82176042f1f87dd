package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/HerbHall/curvefit/internal/config"
	"github.com/HerbHall/curvefit/internal/fitting"
	"github.com/HerbHall/curvefit/internal/server"
	"github.com/HerbHall/curvefit/pkg/curve"
	"go.uber.org/zap"
)

// runFit reads samples, fits them and prints the response as JSON. It
// returns the process exit code.
func runFit(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "input file (JSON request or two-column x y text); default stdin")
	types := fs.String("types", "", "comma-separated model types (default all)")
	pretty := fs.Bool("pretty", false, "indent the JSON output")
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	src := stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			fmt.Fprintf(stderr, "fit: %v\n", err)
			return 1
		}
		defer f.Close()
		src = f
	}

	data, err := io.ReadAll(src)
	if err != nil {
		fmt.Fprintf(stderr, "fit: read input: %v\n", err)
		return 1
	}
	req, err := parseFitInput(data)
	if err != nil {
		fmt.Fprintf(stderr, "fit: %v\n", err)
		return 1
	}
	if *types != "" {
		req.Types = strings.Split(*types, ",")
	}

	v, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "fit: load configuration: %v\n", err)
		return 1
	}
	cfg := fitting.DefaultConfig()
	if err := config.New(v).Sub("plugins.fitting").Unmarshal(&cfg); err != nil {
		fmt.Fprintf(stderr, "fit: fitting config: %v\n", err)
		return 1
	}

	resp, err := fitting.NewService(cfg, zap.NewNop()).Fit(context.Background(), req)
	if err != nil {
		fmt.Fprintf(stderr, "fit: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(resp); err != nil {
		fmt.Fprintf(stderr, "fit: write output: %v\n", err)
		return 1
	}
	return 0
}

// parseFitInput accepts a JSON fit request or whitespace/comma separated
// "x y" lines. Blank lines and lines starting with # are ignored.
func parseFitInput(data []byte) (curve.FitRequest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var req curve.FitRequest
		if err := json.Unmarshal(trimmed, &req); err != nil {
			return curve.FitRequest{}, fmt.Errorf("invalid JSON request: %w", err)
		}
		return req, nil
	}

	var req curve.FitRequest
	sc := bufio.NewScanner(bytes.NewReader(trimmed))
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) != 2 {
			return curve.FitRequest{}, fmt.Errorf("line %d: want two columns, got %d", line, len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return curve.FitRequest{}, fmt.Errorf("line %d: x: %w", line, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return curve.FitRequest{}, fmt.Errorf("line %d: y: %w", line, err)
		}
		req.X = append(req.X, x)
		req.Y = append(req.Y, y)
	}
	if err := sc.Err(); err != nil {
		return curve.FitRequest{}, err
	}
	return req, nil
}
