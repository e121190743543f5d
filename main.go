package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/alexflint/go-arg"
)

type Args struct {
	InputFile             string   `arg:"--input-file,required" help:"Path to HomeMoney CSV file being converted."`
	OutputFile            string   `arg:"--output-file,required" help:"Path to converted ZenMoney file, '.xlsx' extension switches format to XLSX."`
	MultiCurrencyAccounts []string `arg:"--multi-currency-account,separate" help:"Multi-valued option for specifying multi-currency accounts."`
	SplitOutputBy         *int     `arg:"--split-output-by" help:"Split output file into multiple files with N records each. If set as '0' then the output file won't be split."`
	TransferCategory      string   `arg:"--transfer-category" help:"Write each transfer as two records (outcome and income) with this category."`
	Format                string   `arg:"--format" help:"Output format: 'csv' or 'xlsx'. By default is chosen by output file extension."`
	ConfigPath            string   `arg:"--config" help:"Path to the optional configuration YAML file. Arguments override values from it."`
	SaveConfigPath        string   `arg:"--save-config" help:"Write effective configuration into this YAML file."`
	LogLevel              string   `arg:"--log-level" help:"One of 'trace', 'debug', 'info', 'warn', 'error'."`
}

// Version is application version string and should be updated with `go build -ldflags`.
var Version = "development"

func (Args) Version() string {
	return Version
}

func (Args) Description() string {
	return "HM2ZM converts HomeMoney CSV export into ZenMoney import file."
}

func main() {
	args, isHelpRequested, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("Error parsing arguments: %v", err)
	}
	if isHelpRequested {
		os.Exit(EXIT_CODE_OK)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := runApplication(ctx, args, os.Stdout)
	if err != nil {
		log.Printf("Conversion failed: %v", err)
		stop()
		os.Exit(EXIT_CODE_FAILURE)
	}
	if summary.Errors > 0 {
		stop()
		os.Exit(EXIT_CODE_SKIPPED_ROW)
	}
}

// parseArgs parses command line arguments. Prints help or version and returns true if they were requested.
func parseArgs(osArgs []string) (Args, bool, error) {
	var args Args
	p, err := arg.NewParser(arg.Config{Program: "hm2zm"}, &args)
	if err != nil {
		return args, false, fmt.Errorf("error creating argument parser: %w", err)
	}

	err = p.Parse(osArgs)
	switch {
	case errors.Is(err, arg.ErrHelp):
		p.WriteHelp(os.Stdout)
		return args, true, nil
	case errors.Is(err, arg.ErrVersion):
		fmt.Println(Version)
		return args, true, nil
	case err != nil:
		return args, false, err
	}

	if args.SplitOutputBy != nil && *args.SplitOutputBy < 0 {
		return args, false, fmt.Errorf(
			"invalid value '%d' for option '--split-output-by': value is not a natural number",
			*args.SplitOutputBy,
		)
	}
	return args, false, nil
}

// runApplication converts input file into output file(s) and prints report into stdout.
func runApplication(ctx context.Context, args Args, stdout io.Writer) (Summary, error) {
	cfg := &Config{}
	if args.ConfigPath != "" {
		configPath, err := getAbsolutePath(args.ConfigPath)
		if err != nil {
			return Summary{}, fmt.Errorf("can't find configuration file '%s': %w", args.ConfigPath, err)
		}
		cfg, err = readConfig(configPath)
		if err != nil {
			return Summary{}, fmt.Errorf("configuration file '%s' is wrong: %w", configPath, err)
		}
	}
	cfg.applyArgs(args)
	cfg.setDefaults(args.OutputFile)
	location, err := cfg.verify()
	if err != nil {
		return Summary{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if args.SaveConfigPath != "" {
		if err := cfg.writeToFile(args.SaveConfigPath); err != nil {
			return Summary{}, fmt.Errorf("can't save configuration into '%s': %w", args.SaveConfigPath, err)
		}
	}

	logger, err := newLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return Summary{}, err
	}
	logger.Info().Str("version", Version).Interface("config", cfg).Msg("Using configuration")

	inputPath, err := getAbsolutePath(args.InputFile)
	if err != nil {
		return Summary{}, fmt.Errorf("can't find input file '%s': %w", args.InputFile, err)
	}
	logger.Info().Str("file", inputPath).Msg("Reading file")
	input, err := os.Open(inputPath)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer input.Close()
	reader, err := NewHomeMoneyCsvReader(input, location)
	if err != nil {
		return Summary{}, fmt.Errorf("can't read HomeMoney CSV '%s': %w", inputPath, err)
	}

	var writer *SplitFileWriter
	switch cfg.OutputFormat {
	case OUTPUT_FORMAT_XLSX:
		writer, err = NewZenMoneyXlsxWriter(args.OutputFile, cfg.SplitOutputBy)
	default:
		writer, err = NewZenMoneyCsvWriter(args.OutputFile, cfg.SplitOutputBy)
	}
	if err != nil {
		return Summary{}, err
	}

	conversion := NewConversion(ConversionOptions{
		MultiCurrencyAccounts: cfg.MultiCurrencyAccounts,
		TransferCategory:      cfg.TransferCategory,
		Logger:                logger,
	})
	summary, err := conversion.Run(ctx, reader, writer)
	if closeErr := writer.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return summary, err
	}

	printReport(stdout, summary, writer.Files())
	return summary, nil
}

// printReport prints created files, accounts to create in ZenMoney and errors count.
func printReport(w io.Writer, summary Summary, files []string) {
	fmt.Fprintf(w, "Converted %d of %d records into %d records", summary.Emitted, summary.Read, summary.Written)
	if len(files) > 0 {
		fmt.Fprintf(w, " in %s", strings.Join(files, ", "))
	}
	fmt.Fprintln(w, ".")
	if summary.DroppedPending != nil {
		fmt.Fprintf(w, "Transfer without pair was dropped: %s\n", summary.DroppedPending.DisplayString())
	}

	accounts := summary.AccountsToCreate()
	if len(accounts) > 0 {
		fmt.Fprintln(w, "Accounts to create in ZenMoney:")
		for _, account := range accounts {
			fmt.Fprintf(w, "  %s: %s\n", account.Name, strings.Join(account.Currencies, ", "))
		}
	}
	if summary.Errors > 0 {
		fmt.Fprintf(w, "Skipped %d records with errors, see log for details.\n", summary.Errors)
	} else {
		fmt.Fprintln(w, "Conversion complete.")
	}
}
