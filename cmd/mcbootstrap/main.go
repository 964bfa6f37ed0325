// Command mcbootstrap is the CLI entry point wrapping cmd.Execute.
package main

import "github.com/sammwy/mcbootstrap-go/cmd"

func main() {
	cmd.Execute()
}
