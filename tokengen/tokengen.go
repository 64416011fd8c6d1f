// Command tokengen computes request tokens for the scoring API.
// A user token is sha512(account + login + salt); an admin token is
// sha512(YYYYMMDDHH + secret) and is only valid within the current hour.
package main

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"flag"
	"fmt"
	"time"
)

func main() {
	var account = flag.String("account", "", "Account name (user tokens).")
	var login = flag.String("login", "", "Login (user tokens).")
	var salt = flag.String("salt", "", "Salt mixed into user tokens.")

	var admin = flag.Bool("admin", false, "Generate an admin token instead of a user token.")
	var secret = flag.String("secret", "", "Secret mixed into the admin token.")

	var token = flag.String("validate", "", "Token to validate instead of generating one.")

	flag.Parse()

	var expected string
	if *admin {
		if *secret == "" {
			flag.Usage()
			return
		}
		expected = digest(time.Now().Format("2006010215") + *secret)
	} else {
		if *salt == "" {
			flag.Usage()
			return
		}
		expected = digest(*account + *login + *salt)
	}

	if *token != "" {
		if subtle.ConstantTimeCompare([]byte(expected), []byte(*token)) == 1 {
			fmt.Println("Valid")
		} else {
			fmt.Println("INVALID: ", *token)
		}
		return
	}

	fmt.Println(expected)
}

func digest(msg string) string {
	sum := sha512.Sum512([]byte(msg))
	return hex.EncodeToString(sum[:])
}
