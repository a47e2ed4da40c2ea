/*
Package cli provides command-line utilities shared by the openx command:
output formatters, exit-code errors, and signal handling.

Output Formatting:

Command results render in text, JSON, or CSV:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

CSV output requires the data to implement Tabular.

Exit Codes:

Commands return *ExitError to select the process exit code. The
convention is 0 for a clean validation, 1 for validation errors, and 2
for a load or parse failure:

	return cli.Exit(cli.ExitValidationFailed, errors.New("configuration validation failed"))

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
*/
package cli
