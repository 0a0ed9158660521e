// Command galaxy-launch imports published Galaxy workflows into the current
// user's account and prints the URL that runs them.
package main

import "galaxy-launch/internal/cli"

func main() {
	cli.Execute()
}
