package iostore

import (
	"fmt"
	"sort"

	"github.com/helexia/contractrisk/schema"
)

// PrintStoreStatus prints store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	if status.DatabaseTarget != "" {
		fmt.Printf("Database: %s\n", status.DatabaseTarget)
	}
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	if status.SchemaVersion > 0 {
		fmt.Printf("Schema Version: %d\n", status.SchemaVersion)
	}
	fmt.Printf("Total Projects: %d\n", status.TotalProjects)
	fmt.Printf("Total Risks: %d\n", status.TotalRisks)
	if status.TotalProjects > 0 {
		fmt.Printf("Last Save: %s\n", status.LastSavedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Save: %s\n", status.OldestSavedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Size: %d bytes\n", status.SizeBytes)

	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	fmt.Println("Table Sizes:")
	for _, table := range tables {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}
