// fixturegen writes the JSON fixture files the audit dashboard serves:
// fifteen business-unit snapshots per quarter, one enterprise summary per
// quarter and the shared historical-trends file. Runs are deterministic for
// a given seed.
package main

func main() {
	Execute()
}
