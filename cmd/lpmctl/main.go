// Command lpmctl loads a routes file into a longest-prefix-match table and
// queries it.
package main

func main() {
	execute()
}
