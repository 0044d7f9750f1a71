// Command pf reads JSON values from stdin or files and writes them back
// through a registered marshaller.
//
// Usage:
//
//	pf [flags] [file...]
//	pf marshallers
package main

func main() {
	Execute()
}
