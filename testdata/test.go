package testdata

import "fmt"

// greeting holds the message printed by Greet.
const greeting = "Hello"

// Greet prints a greeting for name.
func Greet(name string) string {
	message := fmt.Sprintf("%s, %s!", greeting, name)
	return message
}

func main() {
	names := []string{"Ada", "Grace"}
	for _, name := range names {
		fmt.Println(Greet(name))
	}
}
