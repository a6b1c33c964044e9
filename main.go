// Command taskboard is a kanban task board for the terminal.
package main

import "github.com/twiced-technology-gmbh/taskboard/cmd"

func main() {
	cmd.Execute()
}
