package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm asks a yes/no question on out and reads the answer from in. Only
// "y" and "yes" count as consent; force skips the prompt.
func Confirm(in io.Reader, out io.Writer, message string, force bool) bool {
	if force {
		return true
	}
	fmt.Fprintf(out, "%s (y/N): ", message)

	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
