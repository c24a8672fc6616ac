package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// exitError carries a process exit code out of a command. A nil err means the
// command already reported its outcome.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintf(stderr, "error: %v\n", exitErr.err)
		}
		return exitErr.code
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "assina",
		Short: "Offline RSA SHA-256 document signing",
		Long: `assina generates RSA key pairs, signs documents and verifies
signatures without a running server.

Signatures are RSASSA-PKCS1-v1_5 over the SHA-256 digest of the document.

Examples:
  assina keygen --private-out key.pem --public-out key.pub
  assina sign --in contract.pdf --key key.pem --out contract.sig.json
  assina verify --in contract.pdf --signature-file contract.sig.json --pubkey key.pub
  assina digest --in contract.pdf`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newKeygenCmd(),
		newSignCmd(),
		newVerifyCmd(),
		newDigestCmd(),
	)
	return root
}
