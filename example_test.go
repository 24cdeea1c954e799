package lexctrace_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/lexctrace"
	"github.com/aretw0/lexctrace/pkg/adapters/memory"
)

// ExampleEngine_Trace traces a plural noun through an in-memory lexicon.
func ExampleEngine_Trace() {
	src := memory.NewSource("nouns.lexc", `
LEXICON Root
Nouns ;

LEXICON Nouns
cat:cat Num ;

LEXICON Num
%<N%>%<Sg%>:0 # ;
%<N%>%<Pl%>:s # ;
`)
	ctx := context.Background()
	eng, err := lexctrace.New(ctx, src)
	if err != nil {
		log.Fatal(err)
	}

	result, err := eng.Trace(ctx, "cat<N><Pl>", "cats")
	if err != nil {
		log.Fatal(err)
	}
	for _, path := range result.Paths {
		fmt.Println(strings.Join(path.Classes(), " -> "))
	}
	// Output: Root -> Nouns -> Num -> #
}
