package cli

type Options struct {
	URL       string `short:"u" long:"url" description:"platform api base url" env:"STORYCLIENT_BASE_URL"`
	TokenFile string `short:"t" long:"token-file" description:"path of the persisted credential file"`
	Provider  string `short:"p" long:"provider" description:"login provider" default:"google"`
	Verbose   bool   `short:"v" long:"verbose" description:"enable debug logging"`
	Args      struct {
		Command string   `positional-arg-name:"command" description:"login | logout | me | stories | story | story-delete | board | wallet"`
		Rest    []string `positional-arg-name:"args"`
	} `positional-args:"yes"`
}
