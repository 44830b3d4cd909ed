// Command framesim drives the framekit frame loop against the simulated GPU and reports
// descriptor and constant memory usage.
package main

func main() {
	execute()
}
