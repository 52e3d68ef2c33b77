// Package files provides file system operations for the gstat pipeline.
//
// Discovery finds the release workbooks (*.xlsx) waiting in the download
// directory, oldest first.
//
// Manager relocates processed workbooks into the archive directory once
// they have been loaded, and tells the fetcher whether a release is
// already archived so it is not downloaded again.
//
// Example usage:
//
//	discovery := files.NewDiscovery(baseDir)
//	workbooks, err := discovery.FindExcelFiles("data/downloads")
//
//	manager := files.NewManager(archiveDir, logger)
//	if !manager.IsArchived("ITR Q12024A.xlsx") {
//	    // download it
//	}
package files
