package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: b64pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  preview     Decode Base64 and show the PDF in the browser")
	fmt.Fprintln(w, "  sample      Preview a built-in or catalog sample")
	fmt.Fprintln(w, "  samples     List the sample catalog")
	fmt.Fprintln(w, "  shell       Keep a browser open and preview inputs interactively")
	fmt.Fprintln(w, "  decode      Decode Base64 to PDF files without a browser")
	fmt.Fprintln(w, "  doctor      Check the browser and environment")
	fmt.Fprintln(w, "  completion  Generate shell completion scripts")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'b64pdf help <command>' for details on a specific command.")
}

// printSessionFlags prints the flags shared by preview, sample and shell.
func printSessionFlags(w io.Writer) {
	fmt.Fprintln(w, "Delivery:")
	fmt.Fprintln(w, "  -m, --mode <s>            new-tab, proxy-tab (default), same-tab")
	fmt.Fprintln(w, "      --cleanup-delay <d>   Revoke the document after this delay")
	fmt.Fprintln(w, "                            Defaults: new-tab 10s, proxy-tab 1m, same-tab 0s")
	fmt.Fprintln(w, "                            same-tab also revokes when the tab navigates away")
	fmt.Fprintln(w, "      --prepare-delay <d>   Simulated latency before decoding (proxy-tab)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --backend <s>         Driver: rod (default), chromedp")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome executable (or ROD_BROWSER_BIN)")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox (or ROD_NO_SANDBOX=1)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input:")
	fmt.Fprintln(w, "      --wrapped             Accept line breaks inside the payload")
	fmt.Fprintln(w, "      --max-size <n>        Maximum input size in bytes (default 64 MiB)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Presentation:")
	fmt.Fprintln(w, "      --catalog <path>      Extra sample catalog (YAML)")
	fmt.Fprintln(w, "      --asset-path <path>   Custom template and style directory")
	fmt.Fprintln(w, "      --no-alert            Report errors on stderr only")
	fmt.Fprintln(w)
	printOutputControl(w)
}

// printOutputControl prints the flags every command accepts.
func printOutputControl(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show diagnostics")
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: b64pdf preview [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Decode a Base64 PDF and show it in the browser.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File holding Base64 or a data URI; - or piped input reads stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -d, --data <s>            Base64 or data URI given inline")
	fmt.Fprintln(w)
	printSessionFlags(w)
}

// printSampleUsage prints usage for the sample command.
func printSampleUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: b64pdf sample <name> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Preview a sample from the catalog. Run 'b64pdf samples' to list names.")
	fmt.Fprintln(w)
	printSessionFlags(w)
}

// printShellUsage prints usage for the shell command.
func printShellUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: b64pdf shell [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Keep one browser open and preview each line typed or pasted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Shell commands:")
	printShellCommands(w)
	fmt.Fprintln(w)
	printSessionFlags(w)
}

// printShellCommands lists the slash commands of the shell.
func printShellCommands(w io.Writer) {
	fmt.Fprintln(w, "  /mode [m]       Show or switch the delivery mode")
	fmt.Fprintln(w, "  /sample <name>  Preview a catalog sample")
	fmt.Fprintln(w, "  /samples        List sample names")
	fmt.Fprintln(w, "  /paste          Read wrapped input until an empty line")
	fmt.Fprintln(w, "  /status         Show the mode and outstanding documents")
	fmt.Fprintln(w, "  /help           Show this list")
	fmt.Fprintln(w, "  /quit           Close the browser and exit")
	fmt.Fprintln(w, "  anything else   Preview it as Base64 or a data URI")
}

// printDecodeUsage prints usage for the decode command.
func printDecodeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: b64pdf decode [inputs...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Decode Base64 PDFs to files without a browser.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  inputs   Files holding Base64 or data URIs; none or - reads stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file, directory, or - for stdout")
	fmt.Fprintln(w, "                            Default: input name with a .pdf extension")
	fmt.Fprintln(w, "  -f, --force               Overwrite existing files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input:")
	fmt.Fprintln(w, "      --wrapped             Accept line breaks inside the payload")
	fmt.Fprintln(w, "      --max-size <n>        Maximum input size in bytes (default 64 MiB)")
	fmt.Fprintln(w)
	printOutputControl(w)
}

// printSamplesUsage prints usage for the samples command.
func printSamplesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: b64pdf samples [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the sample catalog. --quiet prints names only.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --catalog <path>      Extra sample catalog (YAML)")
	fmt.Fprintln(w)
	printOutputControl(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	w := env.Stdout
	switch args[0] {
	case "preview":
		printPreviewUsage(w)
	case "sample":
		printSampleUsage(w)
	case "samples":
		printSamplesUsage(w)
	case "shell":
		printShellUsage(w)
	case "decode":
		printDecodeUsage(w)
	case "doctor":
		fmt.Fprintln(w, "Usage: b64pdf doctor [--json]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Check the browser, configuration and local handle server.")
	case "completion":
		fmt.Fprintln(w, "Usage: b64pdf completion <bash|zsh|fish|powershell>")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print a shell completion script.")
	case "version":
		fmt.Fprintln(w, "Usage: b64pdf version")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show version information.")
	case "help":
		fmt.Fprintln(w, "Usage: b64pdf help [command]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
