package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ikkim/member-directory/config"
	"github.com/ikkim/member-directory/internal/app/repository"
	"github.com/ikkim/member-directory/internal/app/service"
	"github.com/ikkim/member-directory/internal/db"
	"github.com/ikkim/member-directory/pkg/logger"
	"github.com/ikkim/member-directory/pkg/util"
	"github.com/xuri/excelize/v2"
)

// importResult tallies what happened to each sheet row.
type importResult struct {
	Created  int
	Skipped  int
	Existing int
	Failed   int
}

func main() {
	yes := flag.Bool("y", false, "import without asking for confirmation")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: seed [-y] <members.xlsx>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	inputs, skipped, err := readMembersFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Members to import: %d (skipped %d incomplete rows)\n", len(inputs), skipped)

	if !*yes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.Admin); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	memberService := service.NewMemberService(repository.NewMemberRepository(db.GetDB()))
	result := importMembers(memberService, inputs)
	result.Skipped += skipped

	fmt.Println("Import completed!")
	fmt.Printf("Created: %d, already registered: %d, skipped: %d, failed: %d\n",
		result.Created, result.Existing, result.Skipped, result.Failed)
}

// readMembersFromXLSX parses the first sheet. The header row must match
// the export layout so an export can be re-imported.
func readMembersFromXLSX(filePath string) ([]service.RegisterInput, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, 0, err
	}

	var (
		inputs  []service.RegisterInput
		skipped int
	)
	for i, row := range rows[1:] {
		input, ok := service.ParseMemberRow(row)
		if !ok {
			fmt.Printf("Row %d: missing first name or email, skipping\n", i+2)
			skipped++
			continue
		}
		inputs = append(inputs, input)
	}
	return inputs, skipped, nil
}

func checkHeader(header []string) error {
	for i, want := range service.MemberSheetHeaders {
		if i >= len(header) || header[i] != want {
			return fmt.Errorf("unexpected header in column %d: want %q", i+1, want)
		}
	}
	return nil
}

// importMembers registers each row as an admin would. Every imported member
// gets a temporary password to be changed through the credentials endpoint.
func importMembers(members service.MemberService, inputs []service.RegisterInput) importResult {
	var result importResult
	for _, input := range inputs {
		password := util.GenerateTempPassword()
		input.Password = password
		input.ConfirmPassword = password

		member, err := members.Register(input, true)
		switch {
		case err == nil:
			result.Created++
			fmt.Printf("Created %s <%s> temporary password: %s\n", member.FullName(), member.Email, password)
		case errors.Is(err, service.ErrEmailAlreadyExists):
			result.Existing++
		default:
			result.Failed++
			logger.Warn("Failed to import member", map[string]interface{}{
				"email": input.Email,
				"error": err.Error(),
			})
		}
	}
	return result
}
