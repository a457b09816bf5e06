// The gom command inspects and runs device machines built on the GOM
// object model.
package main

import (
	"github.com/joho/godotenv"
	"github.com/tebeka/atexit"
)

func main() {
	// Optional environment file; absence is fine.
	_ = godotenv.Load()

	Execute()
	atexit.Exit(0)
}
