// chatstat - WhatsApp chat statistics
//
// chatstat reads exported WhatsApp chats and reports message counts, the
// busiest users, common words and activity over time.
package main

import (
	"os"

	"github.com/ccollicutt/chatstat/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
