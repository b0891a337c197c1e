package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"pubmedrag/internal/domain"
)

// RunLoop drives a session over plain line-based I/O until the session
// terminates or the input stream ends. End-of-input is the one unrecoverable
// condition; everything else is reported and the loop continues.
func RunLoop(ctx context.Context, s *Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for s.State() != StateTerminated {
		fmt.Fprint(out, promptFor(s.State()))
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n"+GoodbyeMessage)
			return scanner.Err()
		}

		reply := s.Handle(ctx, scanner.Text())
		if len(reply.Papers) > 0 {
			printPapers(out, reply.Papers)
		}
		if reply.Text != "" {
			fmt.Fprintf(out, "\n%s\n\n", reply.Text)
		}
		if reply.Done {
			break
		}
	}
	return nil
}

func promptFor(state State) string {
	if state == StateAwaitingFollowUp {
		return "Ask a follow-up (or 'exit' to finish): "
	}
	return "Enter your research question (or 'exit'): "
}

func printPapers(out io.Writer, papers []domain.Paper) {
	fmt.Fprintf(out, "\nTop %d relevant papers:\n", len(papers))
	for i, p := range papers {
		fmt.Fprintf(out, "\n[%d] %s\n", i+1, p.Title)
		fmt.Fprintf(out, "    PubMed ID: %s  (%s)\n", p.PubmedID, p.PublicationDate)
		fmt.Fprintf(out, "    Authors: %s\n", p.Authors)
		if p.Summary != "" {
			fmt.Fprintf(out, "    Summary: %s\n", p.Summary)
		}
	}
}
