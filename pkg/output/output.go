package output

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/Galinha2/super-nova-2177/pkg/config"
	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Out receives all printed output
var Out io.Writer = color.Output

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

// GetOutputFormat returns the configured output format
func GetOutputFormat() OutputFormat {
	return ParseFormat(config.GetString("output.format"))
}

// ParseFormat maps a format name to an OutputFormat, defaulting to text
func ParseFormat(format string) OutputFormat {
	switch format {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// ValidateOutputFormat checks if format is valid
func ValidateOutputFormat(format string) bool {
	return format == "json" || format == "table" || format == "text"
}

// PrintRecord outputs a single record in the configured format
func PrintRecord(title string, record map[string]interface{}) error {
	return printRecord(GetOutputFormat(), title, record)
}

func printRecord(format OutputFormat, title string, record map[string]interface{}) error {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	switch format {
	case FormatJSON:
		return printJSON(record)
	case FormatTable:
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{k, fmt.Sprintf("%v", record[k])})
		}
		printTable([]string{"Field", "Value"}, rows)
		return nil
	default:
		if title != "" {
			fmt.Fprintf(Out, "%s:\n", title)
		}
		bold := color.New(color.Bold)
		for _, k := range keys {
			bold.Fprint(Out, k+": ")
			fmt.Fprintf(Out, "%v\n", record[k])
		}
		return nil
	}
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(Out, msg+"\n", args...)
}

func printJSON(data interface{}) error {
	encoder := json.NewEncoder(Out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)

	for i, h := range headers {
		bold.Fprint(w, h)
		if i < len(headers)-1 {
			fmt.Fprint(w, "\t")
		}
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprint(w, cell)
			if i < len(row)-1 {
				fmt.Fprint(w, "\t")
			}
		}
		fmt.Fprintln(w)
	}

	w.Flush()
}
