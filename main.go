package main

import "github.com/dnitsch/s3-credentials/cmd"

func main() {
	cmd.Execute()
}
