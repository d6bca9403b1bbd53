// cmd/loadplanner/main.go
package main

func main() {
	Execute()
}
