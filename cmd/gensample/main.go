package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func main() {
	var opts genOptions
	flag.StringVar(&opts.Dir, "output", "sample", "output directory")
	flag.IntVar(&opts.Days, "days", 14, "number of calendar days to cover")
	flag.IntVar(&opts.OrdersPerDay, "orders-per-day", 4, "maintenance orders per day")
	flag.Int64Var(&opts.Seed, "seed", 1, "random seed")
	flag.Parse()

	if err := generate(opts); err != nil {
		log.Fatalf("generation failed: %v", err)
	}
}

type genOptions struct {
	Dir          string
	Days         int
	OrdersPerDay int
	Seed         int64
}

var workCenters = []string{"WC100", "WC200", "WC300", "WC400"}

// Short texts in the plant's shop-floor language, one per failure code.
var damages = []struct {
	text  string
	group string
	code  string
}{
	{"Kardan uvolnen", "MECH", "01"},
	{"lozisko hluk", "MECH", "02"},
	{"motor nejede", "ELEK", "01"},
	{"kabel poskozen", "ELEK", "02"},
	{"forma prasklá", "WERK", "01"},
	{"hydraulika unik oleje", "HYDR", "01"},
	{"snimac nefunguje", "SENS", "01"},
	{"program reset", "STEU", "01"},
	{"cisteni linky", "WART", "01"},
}

var failureCodes = [][]string{
	{"MECH", "01", "Mechanisch"},
	{"MECH", "02", "Mechanical"},
	{"ELEK", "01", "Elektrisch"},
	{"ELEK", "02", "Electrical"},
	{"WERK", "01", "Werkzeug"},
	{"HYDR", "01", "Hydraulik"},
	{"SENS", "01", "Sensorik"},
	{"STEU", "01", "Steuerung"},
	{"WART", "01", "Wartung"},
}

func generate(opts genOptions) error {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	base := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	orders := [][]interface{}{{
		"Auftrag", "Kurztext", "Priorität", "Eckstarttermin", "Iststart Uhrzeit",
		"Eckendtermin", "Term. Ende Uhrzeit", "Arbeitsplatz", "Meldung",
	}}
	notifs := [][]interface{}{{"Meldung", "Codegruppe", "Codierungscode"}}
	n := 0
	for d := 0; d < opts.Days; d++ {
		day := base.AddDate(0, 0, d)
		for i := 0; i < opts.OrdersPerDay; i++ {
			n++
			dmg := damages[rng.Intn(len(damages))]
			start := day.Add(time.Duration(6*60+rng.Intn(10*60)) * time.Minute)
			end := start.Add(time.Duration(15+rng.Intn(585)) * time.Minute)
			notif := fmt.Sprintf("%d", 300000+n)
			orders = append(orders, []interface{}{
				fmt.Sprintf("%d", 4000000+n),
				dmg.text,
				fmt.Sprintf("%d", 1+rng.Intn(3)),
				start.Format("02.01.2006"), start.Format("15:04:05"),
				end.Format("02.01.2006"), end.Format("15:04:05"),
				workCenters[rng.Intn(len(workCenters))],
				notif,
			})
			notifs = append(notifs, []interface{}{notif, dmg.group, dmg.code})
		}
	}
	codes := [][]interface{}{{"Codegruppe", "Code", "Kurztext zum Code"}}
	for _, c := range failureCodes {
		codes = append(codes, []interface{}{c[0], c[1], c[2]})
	}

	for name, rows := range map[string][][]interface{}{
		"orders.xlsx":        orders,
		"notifications.xlsx": notifs,
		"failure_codes.xlsx": codes,
	} {
		if err := writeWorkbook(filepath.Join(opts.Dir, name), rows); err != nil {
			return err
		}
	}
	if err := writeMachineLog(filepath.Join(opts.Dir, "machine_log.csv"), base, opts.Days, rng); err != nil {
		return err
	}
	log.Printf("generated %d orders over %d days in %s", n, opts.Days, opts.Dir)
	return nil
}

func writeWorkbook(path string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// writeMachineLog writes the report layout: ';'-separated, Latin-1, group
// columns only on the first row of each work-center block, a trailing sum
// row per block and per-category columns in hours.
func writeMachineLog(path string, base time.Time, days int, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(charmap.ISO8859_1.NewEncoder().Writer(f))
	w.Comma = ';'

	header := []string{
		"Plant", "Work Center", "Production Order", "Start date / time", "End date / time",
		"Calendar day", "[-] Malfunction",
		"Störung\n(1201)", "Maschine\n(1401)", "Infrastruktur\n(1402)",
		"Werkzeug\n(1403)", "Peripherie\n(1404)", "Automatisierung\n(1405)",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	downtimeFormats := []func(m int) string{
		func(m int) string { return fmt.Sprintf("%d MIN", m) },
		func(m int) string { return fmt.Sprintf("%dM", m) },
		func(m int) string { return strings.Replace(fmt.Sprintf("%.1fH", float64(m)/60), ".", ",", 1) },
		func(m int) string { return fmt.Sprintf("%d", m) },
	}
	for _, wc := range workCenters {
		for d := 0; d < days; d++ {
			day := base.AddDate(0, 0, d)
			events := 1 + rng.Intn(3)
			for e := 0; e < events; e++ {
				row := make([]string, len(header))
				if d == 0 && e == 0 {
					row[0], row[1] = "P1", wc
				}
				if e == 0 {
					row[2] = fmt.Sprintf("%d", 9000000+rng.Intn(100000))
					row[3] = day.Add(6 * time.Hour).Format("02.01.2006 15:04:05")
					row[4] = day.Add(22 * time.Hour).Format("02.01.2006 15:04:05")
				}
				row[5] = day.Format("02.01.2006")
				minutes := 5 + rng.Intn(90)
				row[6] = downtimeFormats[rng.Intn(len(downtimeFormats))](minutes)
				row[7+rng.Intn(6)] = strings.Replace(fmt.Sprintf("%.2f", float64(minutes)/60), ".", ",", 1)
				if err := w.Write(row); err != nil {
					return fmt.Errorf("write row: %w", err)
				}
			}
		}
		sum := make([]string, len(header))
		sum[5] = "Summe"
		if err := w.Write(sum); err != nil {
			return fmt.Errorf("write sum row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
