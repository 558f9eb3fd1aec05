// Command fitdump decodes a FIT activity file and prints a summary of its
// hierarchy to stdout.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/mharder/fitcore"
	"github.com/tormoder/fit"
)

func main() {
	crossCheck := flag.Bool("cross-check", false, "also decode with tormoder/fit and report any record-count divergence")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: fitdump [-cross-check] <file.fit>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fitdump: %v\n", err)
		os.Exit(1)
	}

	activity, err := fitcore.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fitdump: decode: %v\n", err)
		os.Exit(1)
	}

	records := 0
	laps := 0
	lengths := 0
	for _, session := range activity.Sessions {
		for _, lap := range session.Laps {
			laps++
			for _, length := range lap.Lengths {
				lengths++
				records += len(length.Records)
			}
		}
	}

	fmt.Printf("guid: %s\n", activity.GUID)
	fmt.Printf("sessions: %d\n", len(activity.Sessions))
	fmt.Printf("laps: %d\n", laps)
	fmt.Printf("lengths: %d\n", lengths)
	fmt.Printf("records: %d\n", records)

	if *crossCheck {
		if err := reportCrossCheck(data, records); err != nil {
			fmt.Fprintf(os.Stderr, "fitdump: cross-check: %v\n", err)
			os.Exit(1)
		}
	}
}

// reportCrossCheck decodes the same bytes with the real tormoder/fit
// top-level API, read-only, and reports any divergence in the decoded
// record count from this module's own decode. A purely diagnostic
// convenience, not part of the decode path itself.
func reportCrossCheck(data []byte, ourRecords int) error {
	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("tormoder/fit decode: %w", err)
	}
	theirActivity, err := decoded.Activity()
	if err != nil {
		return fmt.Errorf("tormoder/fit activity: %w", err)
	}

	theirRecords := len(theirActivity.Records)

	if theirRecords != ourRecords {
		fmt.Printf("cross-check: record count diverges: ours=%d tormoder/fit=%d\n", ourRecords, theirRecords)
	} else {
		fmt.Printf("cross-check: record counts agree (%d)\n", ourRecords)
	}
	return nil
}
