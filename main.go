// zonectl provisions a Terraform configuration in the first cloud zone that
// accepts it, trying the provider's zones in order.
package main

import (
	"os"

	"github.com/kjourdan1/zonectl/cmd"
	"github.com/kjourdan1/zonectl/internal/exitcode"
	"github.com/kjourdan1/zonectl/internal/output"
	_ "github.com/kjourdan1/zonectl/schemas"
)

func main() {
	if err := cmd.Execute(); err != nil {
		code := exitcode.Of(err)
		// An exhausted run has already written its JSON document.
		if !output.JSONMode || code != exitcode.Exhausted {
			output.PrintError(err)
		}
		os.Exit(code)
	}
}
