// Package cli implements storyctl, a small command line front end over the
// storyclient library: browser-assisted login, session restore from the
// persisted credential file, and read-mostly access to stories, the public
// board and the heart wallet.
package cli
