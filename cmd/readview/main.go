// Command readview extracts the readable article from a local HTML
// file and prints it as HTML, plain text, or JSON metadata.
package main

import cmd "github.com/readview/readview/internal/cli"

func main() {
	cmd.Execute()
}
