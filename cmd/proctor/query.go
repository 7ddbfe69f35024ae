package main

import (
	"encoding/json"
	"os"

	"github.com/Jhananishri-B/Learnquest-certificate/pkg/data"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	queryResultLimitDefault = 100
)

var (
	userQueryFlag = &cli.StringFlag{
		Name:     "user",
		Usage:    "User ID",
		Required: true,
	}

	courseQueryFlag = &cli.StringFlag{
		Name:     "course",
		Usage:    "Course ID",
		Required: true,
	}

	queryLimitFlag = &cli.IntFlag{
		Name:     "limit",
		Usage:    "Limits number of results returned",
		Value:    queryResultLimitDefault,
		Required: false,
	}

	resultsCmd = &cli.Command{
		Name:    "results",
		Aliases: []string{"r"},
		Usage:   "List recent test results for a user",
		Action:  cmdQueryResults,
		Flags: []cli.Flag{
			userQueryFlag,
			queryLimitFlag,
		},
	}

	violationsCmd = &cli.Command{
		Name:    "violations",
		Aliases: []string{"v"},
		Usage:   "List logged violations for a session",
		Action:  cmdQueryViolations,
		Flags: []cli.Flag{
			userQueryFlag,
			courseQueryFlag,
			queryLimitFlag,
		},
	}

	certificateCmd = &cli.Command{
		Name:    "certificate",
		Aliases: []string{"cert"},
		Usage:   "Show the most recent certificate decision for a user and course",
		Action:  cmdQueryCertificate,
		Flags: []cli.Flag{
			userQueryFlag,
			courseQueryFlag,
		},
	}
)

func cmdQueryResults(c *cli.Context) error {
	db := getDBOrFail()
	defer db.Close()

	list, err := data.GetTestResults(db, c.String(userQueryFlag.Name), c.Int(queryLimitFlag.Name))
	if err != nil {
		return errors.Wrap(err, "error querying test results")
	}

	return writeJSON(list)
}

func cmdQueryViolations(c *cli.Context) error {
	db := getDBOrFail()
	defer db.Close()

	list, err := data.GetViolations(db, c.String(userQueryFlag.Name), c.String(courseQueryFlag.Name), c.Int(queryLimitFlag.Name))
	if err != nil {
		return errors.Wrap(err, "error querying violations")
	}

	return writeJSON(list)
}

func cmdQueryCertificate(c *cli.Context) error {
	db := getDBOrFail()
	defer db.Close()

	result, err := data.GetLatestResult(db, c.String(userQueryFlag.Name), c.String(courseQueryFlag.Name))
	if err != nil {
		return errors.Wrap(err, "error querying certificate status")
	}
	if result == nil {
		return errors.New("no submission found")
	}

	return writeJSON(result)
}

func writeJSON(v interface{}) error {
	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	if err := e.Encode(v); err != nil {
		return errors.Wrap(err, "error encoding results")
	}
	return nil
}
