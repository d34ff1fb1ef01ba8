package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iliyamo/sonic-seats/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load and validate every document in the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkDocuments(cmd.OutOrStdout(), openStore())
	},
}

// checkDocuments loads each document under its read lock and prints one
// line per document.  Every failure is reported; the returned error joins
// them.
func checkDocuments(w io.Writer, s *store.Store) error {
	type check struct {
		path  string
		count func() (int, error)
	}
	checks := []check{
		{s.ConcertsPath(), func() (int, error) { v, err := s.Concerts(); return len(v), err }},
		{s.PurchasesPath(), func() (int, error) { v, err := s.Purchases(); return len(v), err }},
		{s.CommentsPath(), func() (int, error) { v, err := s.Comments(); return len(v), err }},
		{s.FAQPath(), func() (int, error) { v, err := s.FAQ(); return len(v), err }},
		{s.CartPath(), func() (int, error) { v, err := s.Cart(); return len(v), err }},
	}

	var errs []error
	for _, c := range checks {
		unlock := s.RLock(c.path)
		n, err := c.count()
		unlock()
		if err != nil {
			fmt.Fprintf(w, "FAIL %s: %v\n", c.path, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "ok   %s (%d entries)\n", c.path, n)
	}
	return errors.Join(errs...)
}
