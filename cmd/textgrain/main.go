// Command textgrain converts a CSV dataset with free-text columns into
// sparse word-presence vectors.
//
// The first row of the CSV is the header. Columns whose every
// non-empty value parses as a number become numeric attributes, the
// -label column becomes a nominal attribute, and everything else is
// treated as free text. Empty cells are missing values.
//
// By default the dictionary is built from the input file itself. With
// -train the dictionary is built from the training file and the input
// file is encoded against it; with -model a previously saved model is
// loaded from the configured store instead. -save persists the frozen
// model after building.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/textgrain/textgrain/pkg/textgrain/config"
	"github.com/textgrain/textgrain/pkg/textgrain/dataset"
	"github.com/textgrain/textgrain/pkg/textgrain/store"
	"github.com/textgrain/textgrain/pkg/textgrain/store/memstore"
	"github.com/textgrain/textgrain/pkg/textgrain/store/sqlite"
	"github.com/textgrain/textgrain/pkg/textgrain/wordvec"
)

func main() {
	var (
		configPath = flag.String("config", "textgrain.yaml", "config file path")
		words      = flag.Int("words", 0, "target dictionary size (overrides config)")
		label      = flag.String("label", "", "label column name (overrides config)")
		trainPath  = flag.String("train", "", "build the dictionary from this CSV instead of the input")
		modelID    = flag.String("model", "", "load a saved model by ID instead of building one")
		save       = flag.Bool("save", false, "save the frozen model to the configured store")
		outPath    = flag.String("o", "", "output file (default stdout)")
		printDict  = flag.Bool("dict", false, "print the dictionary to stderr after building")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: textgrain [flags] data.csv")
	}
	inputPath := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config: ", err)
	}
	if *words > 0 {
		cfg.Filter.WordsToKeep = *words
	}
	if *label != "" {
		cfg.Filter.Label = *label
	}
	if *modelID != "" && *trainPath != "" {
		log.Fatal("-model and -train are mutually exclusive")
	}

	ctx := context.Background()

	var st store.Store
	if *save || *modelID != "" {
		st, err = openStore(ctx, cfg)
		if err != nil {
			log.Fatal("open store: ", err)
		}
		defer st.Close()
	}

	out := io.Writer(os.Stdout)
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal("create output: ", err)
		}
		defer f.Close()
		out = f
	}

	var f *wordvec.Filter
	switch {
	case *modelID != "":
		rec, err := st.GetModel(ctx, *modelID)
		if err != nil {
			log.Fatalf("load model %s: %v", *modelID, err)
		}
		f, err = wordvec.NewFromModel(rec.Model)
		if err != nil {
			log.Fatalf("restore model %s: %v", *modelID, err)
		}
		data, err := readDataset(inputPath, rec.Model.Input)
		if err != nil {
			log.Fatal(err)
		}
		if err := encodeBatch(f, data, out); err != nil {
			log.Fatal(err)
		}

	case *trainPath != "":
		train, err := loadDataset(*trainPath, cfg.Filter.Label)
		if err != nil {
			log.Fatal(err)
		}
		f = wordvec.NewWithWordsToKeep(cfg.Filter.WordsToKeep)
		if err := runFirstBatch(f, train, io.Discard); err != nil {
			log.Fatal(err)
		}
		data, err := readDataset(inputPath, train.Schema)
		if err != nil {
			log.Fatal(err)
		}
		if err := encodeBatch(f, data, out); err != nil {
			log.Fatal(err)
		}

	default:
		data, err := loadDataset(inputPath, cfg.Filter.Label)
		if err != nil {
			log.Fatal(err)
		}
		f = wordvec.NewWithWordsToKeep(cfg.Filter.WordsToKeep)
		if err := runFirstBatch(f, data, out); err != nil {
			log.Fatal(err)
		}
	}

	if *printDict {
		for i, word := range f.Dictionary().Words() {
			fmt.Fprintf(os.Stderr, "%d\t%s\n", i, word)
		}
	}

	if *save {
		model, err := f.Model()
		if err != nil {
			log.Fatal("export model: ", err)
		}
		id, err := st.SaveModel(ctx, model)
		if err != nil {
			log.Fatal("save model: ", err)
		}
		log.Printf("saved model %s (%d words)", id, len(model.Words))
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Type {
	case "sqlite":
		return sqlite.Open(ctx, cfg.Store.Path)
	default:
		return memstore.New(), nil
	}
}

// runFirstBatch feeds the whole dataset as the filter's first batch
// and writes every encoded vector.
func runFirstBatch(f *wordvec.Filter, data *dataset.Dataset, out io.Writer) error {
	if err := f.BeginBatch(data.Schema); err != nil {
		return err
	}
	for _, in := range data.Instances {
		if _, err := f.Accept(in); err != nil {
			return err
		}
	}
	if _, err := f.EndOfBatch(); err != nil {
		return err
	}
	return drain(f, out)
}

// encodeBatch routes instances through an already-frozen filter.
func encodeBatch(f *wordvec.Filter, data *dataset.Dataset, out io.Writer) error {
	for _, in := range data.Instances {
		if _, err := f.Accept(in); err != nil {
			return err
		}
		if err := drain(f, out); err != nil {
			return err
		}
	}
	return nil
}

func drain(f *wordvec.Filter, out io.Writer) error {
	for {
		vec, ok := f.Pop()
		if !ok {
			return nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "%g", vec.Weight)
		for i, idx := range vec.Indices {
			fmt.Fprintf(&sb, " %d:%g", idx, vec.Values[i])
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(out, sb.String()); err != nil {
			return err
		}
	}
}

// loadDataset reads a CSV file and infers its schema: the header row
// names the attributes, the label column becomes nominal, columns
// whose non-empty values all parse as floats become numeric, the rest
// are text.
func loadDataset(path, label string) (*dataset.Dataset, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	labelCol := -1
	numeric := make([]bool, len(header))
	for i := range header {
		if header[i] == label && label != "" {
			labelCol = i
			continue
		}
		numeric[i] = columnIsNumeric(rows, i)
	}
	if label != "" && labelCol == -1 {
		return nil, fmt.Errorf("%s: label column %q not found", path, label)
	}

	attrs := make([]dataset.Attribute, len(header))
	for i, name := range header {
		switch {
		case i == labelCol:
			attrs[i] = dataset.Attribute{Name: name, Type: dataset.Nominal, Labels: columnLabels(rows, i)}
		case numeric[i]:
			attrs[i] = dataset.Attribute{Name: name, Type: dataset.Numeric}
		default:
			attrs[i] = dataset.Attribute{Name: name, Type: dataset.String}
		}
	}

	schema := dataset.NewSchema(strings.TrimSuffix(path, ".csv"), attrs)
	schema.LabelIndex = labelCol
	return buildDataset(path, schema, rows)
}

// readDataset reads a CSV file against an existing schema, checking
// that the header matches.
func readDataset(path string, schema *dataset.Schema) (*dataset.Dataset, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(header) != schema.NumAttrs() {
		return nil, fmt.Errorf("%s: %d columns, schema has %d attributes", path, len(header), schema.NumAttrs())
	}
	for i, name := range header {
		if name != schema.Attrs[i].Name {
			return nil, fmt.Errorf("%s: column %d is %q, schema expects %q", path, i, name, schema.Attrs[i].Name)
		}
	}
	return buildDataset(path, schema, rows)
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: empty file", path)
	}
	return records[0], records[1:], nil
}

func columnIsNumeric(rows [][]string, col int) bool {
	seen := false
	for _, row := range rows {
		cell := row[col]
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

// columnLabels collects distinct label values in order of first
// appearance.
func columnLabels(rows [][]string, col int) []string {
	var labels []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		cell := row[col]
		if cell == "" {
			continue
		}
		if _, ok := seen[cell]; ok {
			continue
		}
		seen[cell] = struct{}{}
		labels = append(labels, cell)
	}
	return labels
}

func buildDataset(path string, schema *dataset.Schema, rows [][]string) (*dataset.Dataset, error) {
	data := dataset.New(schema)
	for n, row := range rows {
		if len(row) != schema.NumAttrs() {
			return nil, fmt.Errorf("%s row %d: %d cells, schema has %d attributes", path, n+2, len(row), schema.NumAttrs())
		}
		values := make([]dataset.Value, len(row))
		for i, cell := range row {
			if cell == "" {
				values[i] = dataset.Missing()
				continue
			}
			attr := schema.Attrs[i]
			switch attr.Type {
			case dataset.String:
				values[i] = dataset.Str(cell)
			case dataset.Numeric:
				num, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("%s row %d column %q: %w", path, n+2, attr.Name, err)
				}
				values[i] = dataset.Num(num)
			case dataset.Nominal:
				ord := -1
				for j, l := range attr.Labels {
					if l == cell {
						ord = j
						break
					}
				}
				if ord == -1 {
					return nil, fmt.Errorf("%s row %d: unknown label %q for column %q", path, n+2, cell, attr.Name)
				}
				values[i] = dataset.Ord(ord)
			}
		}
		data.Add(dataset.NewInstance(values...))
	}
	return data, nil
}
