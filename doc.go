// Package storyclient is the Go client for the Jaramgle children's-story
// generation platform.
//
// The package wires three layers together:
//  1. a token store holding the current access/refresh credential pair
//     (auth/store),
//  2. an authenticated request gateway that attaches the access token and
//     transparently recovers from credential expiry with a single shared
//     refresh exchange (auth/transport), and
//  3. typed resource services over the platform's REST API: stories,
//     characters, billing (hearts), the public sharing board and the admin
//     console.
//
// Example:
//
//	cli, _ := storyclient.New("https://api.jaramgle.example",
//	    storyclient.WithTokenFile(path))
//	profile, err := cli.Session().Bootstrap(ctx)
//	if err != nil {
//	    // not logged in; direct the user to cli.Session().LoginURL("google")
//	}
//	stories, err := cli.Stories.List(ctx)
package storyclient
