package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// TestHelper provides utilities for testing
type TestHelper struct {
	tempDir string
}

// NewTestHelper creates a new test helper with a temporary directory
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{tempDir: t.TempDir()}
}

// CreateFile creates a file in the temp directory with the given content
func (th *TestHelper) CreateFile(t *testing.T, name, content string) string {
	path := filepath.Join(th.tempDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}
	return path
}

func (th *TestHelper) Path(name string) string {
	return filepath.Join(th.tempDir, name)
}

const homeMoneyExport = "\ufeffaccount;category;currency;date;description;total;transfer\n" +
	"Wallet;Food;USD;01.01.2024;lunch;-12,50;\n" +
	"Wallet;;USD;02.01.2024;;-100;Bank\n" +
	"Bank;;USD;02.01.2024;;100;Wallet\n" +
	"Cash;;;03.01.2024;;5;\n"

// ------------------ TESTS ------------------

func TestParseArgs_Success(t *testing.T) {
	tests := []struct {
		name            string
		args            []string
		want            Args
		isHelpRequested bool
	}{
		{
			name: "required args",
			args: []string{"--input-file", "in.csv", "--output-file", "out.csv"},
			want: Args{InputFile: "in.csv", OutputFile: "out.csv"},
		},
		{
			name: "all args",
			args: []string{
				"--input-file", "in.csv",
				"--output-file", "out.xlsx",
				"--multi-currency-account", "Wallet",
				"--multi-currency-account", "Cash",
				"--split-output-by", "0",
				"--transfer-category", "Transfers",
				"--format", "xlsx",
				"--config", "config.yaml",
				"--save-config", "saved.yaml",
				"--log-level", "debug",
			},
			want: Args{
				InputFile:             "in.csv",
				OutputFile:            "out.xlsx",
				MultiCurrencyAccounts: []string{"Wallet", "Cash"},
				SplitOutputBy:         intPtr(0),
				TransferCategory:      "Transfers",
				Format:                "xlsx",
				ConfigPath:            "config.yaml",
				SaveConfigPath:        "saved.yaml",
				LogLevel:              "debug",
			},
		},
		{
			name:            "help",
			args:            []string{"--help"},
			want:            Args{},
			isHelpRequested: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, isHelpRequested, err := parseArgs(tt.args)
			if err != nil {
				t.Fatalf("parseArgs() error = %v", err)
			}
			if isHelpRequested != tt.isHelpRequested {
				t.Errorf("parseArgs() isHelpRequested = %v, want %v", isHelpRequested, tt.isHelpRequested)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("parseArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		expectedError string
	}{
		{
			name:          "missing required",
			args:          []string{"--output-file", "out.csv"},
			expectedError: "--input-file is required",
		},
		{
			name:          "negative split",
			args:          []string{"--input-file", "in.csv", "--output-file", "out.csv", "--split-output-by", "-3"},
			expectedError: "invalid value '-3' for option '--split-output-by': value is not a natural number",
		},
		{
			name:          "not a number split",
			args:          []string{"--input-file", "in.csv", "--output-file", "out.csv", "--split-output-by", "many"},
			expectedError: "--split-output-by",
		},
		{
			name:          "unknown argument",
			args:          []string{"--input-file", "in.csv", "--output-file", "out.csv", "--verbose"},
			expectedError: "unknown argument --verbose",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseArgs(tt.args)
			checkErrorContainsSubstring(t, err, tt.expectedError)
		})
	}
}

func TestRunApplication_Csv(t *testing.T) {
	th := NewTestHelper(t)
	input := th.CreateFile(t, "export.csv", homeMoneyExport)
	output := th.Path("out.csv")
	var stdout bytes.Buffer

	summary, err := runApplication(context.Background(), Args{
		InputFile:  input,
		OutputFile: output,
		LogLevel:   "error",
	}, &stdout)

	if err != nil {
		t.Fatalf("runApplication() error = %v", err)
	}
	if summary.Read != 4 || summary.Emitted != 2 || summary.Written != 2 || summary.Errors != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
	content, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("can't read output: %v", err)
	}
	assertStringEqual(t, string(content), "categoryName,comment,date,income,incomeAccountName,"+
		"incomeCurrencyShortTitle,outcome,outcomeAccountName,outcomeCurrencyShortTitle\n"+
		"Food,lunch,2024-01-01,,,,12.50,Wallet,USD\n"+
		",,2024-01-02,100,Bank,USD,100,Wallet,USD\n")
	assertStringEqual(t, stdout.String(), "Converted 2 of 4 records into 2 records in "+output+".\n"+
		"Accounts to create in ZenMoney:\n"+
		"  Bank: USD\n"+
		"  Wallet: USD\n"+
		"Skipped 1 records with errors, see log for details.\n")
}

func TestRunApplication_ConfigAndSplit(t *testing.T) {
	th := NewTestHelper(t)
	input := th.CreateFile(t, "export.csv", homeMoneyExport)
	config := th.CreateFile(t, "config.yaml", "multiCurrencyAccounts: [Wallet]\n"+
		"splitOutputBy: 1\n"+
		"transferCategory: Transfers\n"+
		"logLevel: error\n"+
		"timeZoneLocation: UTC\n")
	output := th.Path("out.csv")
	var stdout bytes.Buffer

	summary, err := runApplication(context.Background(), Args{
		InputFile:      input,
		OutputFile:     output,
		ConfigPath:     config,
		SaveConfigPath: th.Path("saved.yaml"),
	}, &stdout)

	if err != nil {
		t.Fatalf("runApplication() error = %v", err)
	}
	if summary.Written != 3 {
		t.Errorf("expected lunch and split transfer written, got %+v", summary)
	}
	for _, name := range []string{"out-1.csv", "out-2.csv", "out-3.csv", "saved.yaml"} {
		if _, err := os.Stat(th.Path(name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("unsplit output should not exist, stat error %v", err)
	}
	expectedAccounts := map[string][]string{"Wallet (USD)": {"USD"}, "Bank": {"USD"}}
	if diff := cmp.Diff(expectedAccounts, summary.Accounts); diff != "" {
		t.Errorf("accounts mismatch (-expected +got):\n%s", diff)
	}
	saved, err := readConfig(th.Path("saved.yaml"))
	if err != nil {
		t.Fatalf("can't read saved config: %v", err)
	}
	if saved.OutputFormat != OUTPUT_FORMAT_CSV || saved.SplitOutputBy != 1 {
		t.Errorf("unexpected saved config %+v", saved)
	}
}

func TestRunApplication_Xlsx(t *testing.T) {
	th := NewTestHelper(t)
	input := th.CreateFile(t, "export.csv", homeMoneyExport)
	output := th.Path("out.xlsx")

	_, err := runApplication(context.Background(), Args{
		InputFile:  input,
		OutputFile: output,
		LogLevel:   "error",
	}, &bytes.Buffer{})

	if err != nil {
		t.Fatalf("runApplication() error = %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("expected XLSX output: %v", err)
	}
}

func TestRunApplication_Errors(t *testing.T) {
	th := NewTestHelper(t)
	input := th.CreateFile(t, "export.csv", homeMoneyExport)
	badInput := th.CreateFile(t, "bad.csv", "account;total\n")
	badConfig := th.CreateFile(t, "bad.yaml", "unknown: 1\n")

	tests := []struct {
		name          string
		args          Args
		expectedError string
	}{
		{
			name:          "missing input",
			args:          Args{InputFile: th.Path("missing.csv"), OutputFile: th.Path("out.csv")},
			expectedError: "can't find input file",
		},
		{
			name:          "bad header",
			args:          Args{InputFile: badInput, OutputFile: th.Path("out.csv")},
			expectedError: "missing required column 'currency'",
		},
		{
			name:          "bad config",
			args:          Args{InputFile: input, OutputFile: th.Path("out.csv"), ConfigPath: badConfig},
			expectedError: "field unknown not found",
		},
		{
			name:          "bad format",
			args:          Args{InputFile: input, OutputFile: th.Path("out.csv"), Format: "ods"},
			expectedError: "invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args.LogLevel = "error"
			_, err := runApplication(context.Background(), tt.args, &bytes.Buffer{})
			checkErrorContainsSubstring(t, err, tt.expectedError)
		})
	}
}

func TestPrintReport(t *testing.T) {
	var out bytes.Buffer
	summary := Summary{
		Read:           3,
		Emitted:        1,
		Written:        1,
		DroppedPending: transferRecord("Wallet", "Bank", "-100"),
		Accounts:       map[string][]string{"Wallet (USD)": {"USD"}, "Bank": {"EUR", "USD"}},
	}

	printReport(&out, summary, []string{"out-1.csv", "out-2.csv"})

	assertStringEqual(t, out.String(), "Converted 1 of 3 records into 1 records in out-1.csv, out-2.csv.\n"+
		"Transfer without pair was dropped: "+summary.DroppedPending.DisplayString()+"\n"+
		"Accounts to create in ZenMoney:\n"+
		"  Bank: EUR, USD\n"+
		"  Wallet (USD): USD\n"+
		"Conversion complete.\n")
}
