package output

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/cratewatch/cratewatch/pkg/license"
	"github.com/cratewatch/cratewatch/pkg/registry"
)

// PrintLicenseReport prints a nicely formatted license-evidence report with colors
func PrintLicenseReport(manifest string, reg *registry.Registry) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Println("cratewatch - License Evidence Report")
	bold.Println("====================================")
	fmt.Printf("Manifest: %s\n", manifest)
	fmt.Printf("Crates: %d\n", reg.Len())
	fmt.Println()

	unlicensed := 0
	for c := range reg.All() {
		bold.Printf("%s %s\n", c.Name, c.Version)

		count := 0
		for ev := range license.EvidenceFor(c) {
			count++
			switch ev.Kind {
			case license.KindDeclared:
				green.Printf("  declared: %s\n", ev.License)
			case license.KindInferredFile:
				yellow.Printf("  inferred: %s\n", ev.Path)
			case license.KindExplicitFile:
				cyan.Printf("  explicit: %s\n", ev.Path)
			}
		}
		if count == 0 {
			unlicensed++
			red.Println("  NO LICENSE EVIDENCE")
		}
	}
	fmt.Println()

	// Duplicate versions are worth flagging even in a license report
	if dupes := reg.Duplicates(); len(dupes) > 0 {
		yellow.Printf("Duplicate crates: %d\n", len(dupes))
		for _, run := range dupes {
			versions := make([]string, 0, len(run))
			for _, c := range run {
				versions = append(versions, c.Version.String())
			}
			yellow.Printf("  %s: %v\n", run[0].Name, versions)
		}
	}

	summaryColor := green
	if unlicensed > 0 {
		summaryColor = red
	}
	summaryColor.Printf("Summary: %d/%d crates with license evidence\n", reg.Len()-unlicensed, reg.Len())
}
