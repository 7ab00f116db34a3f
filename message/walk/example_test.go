package walk_test

import (
	"fmt"

	"github.com/zostay/sysmail/message"
	"github.com/zostay/sysmail/message/walk"
)

func ExampleDescribe() {
	s := &message.Spec{To: []string{"sterling@example.com"}}
	s.SetBody(message.Text, "Hello World!")
	s.SetBody(message.Enriched, "<bold>Hello</bold> World!")
	s.SetBody(message.HTML, "<b>Hello</b> World!")

	fmt.Print(walk.Describe(message.Plan(s)))
	// Output:
	// multipart/alternative
	//   text/plain
	//   text/enriched
	//   text/html
}
