package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/llmhomework/portal/core/user"
)

var errNotLoggedIn = errors.New("not logged in")

// login authenticates against the upstream platform and stores the session.
func (cli *commandLine) login(email, pwd string) error {
	creds := user.Login{Email: email, Password: pwd}
	creds.Clean()

	res, err := cli.client.Login(context.Background(), creds)
	if err != nil {
		return err
	}
	if err := cli.sess.Login(res.Token, res.User); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", res.User.Username, res.User.UserType)
	return nil
}

// logout clears the stored state whatever the upstream answers.
func (cli *commandLine) logout() error {
	if cli.sess.Authenticated() {
		if err := cli.client.Logout(context.Background()); err != nil {
			fmt.Printf("warning: upstream logout failed: %v\n", err)
		}
	}
	return cli.sess.Logout()
}

func (cli *commandLine) whoami() error {
	if !cli.sess.Authenticated() {
		return errNotLoggedIn
	}
	usr, err := cli.sess.User()
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> %s %s\n", usr.Username, usr.Email, usr.UserType, usr.AccountStatus)

	if claims, err := cli.sess.Claims(); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			fmt.Printf("token expires %s\n", time.Unix(int64(exp), 0).Format(time.RFC3339))
		}
	}
	return nil
}
