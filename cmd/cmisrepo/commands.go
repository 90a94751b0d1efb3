package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-cmis/pkg/objectstore"
	"github.com/tendant/simple-cmis/pkg/objectstore/seed"
)

// NewTreeCommand creates the tree command
func NewTreeCommand() *cobra.Command {
	var showVersions bool

	cmd := &cobra.Command{
		Use:   "tree [path]",
		Short: "Print the folder tree",
		Long:  `Print the folder tree below path, or below the root folder when no path is given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(cmd)
			if err != nil {
				return err
			}

			start := store.RootFolder()
			if len(args) == 1 {
				obj, ok := store.GetObjectByPath(args[0])
				if !ok {
					return fmt.Errorf("no object at path %s", args[0])
				}
				folder, ok := obj.(*objectstore.Folder)
				if !ok {
					return fmt.Errorf("%s is not a folder", args[0])
				}
				start = folder
			}

			printTree(cmd.OutOrStdout(), start, showVersions)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showVersions, "versions", false, "list the versions of versioned documents")
	return cmd
}

// printTree writes folder and everything below it, one object per line
func printTree(w io.Writer, folder *objectstore.Folder, showVersions bool) {
	fmt.Fprintf(w, "%s [%s]\n", folder.Path(), folder.ID)
	printChildren(w, folder, 1, showVersions)
}

func printChildren(w io.Writer, folder *objectstore.Folder, depth int, showVersions bool) {
	indent := strings.Repeat("  ", depth)
	for _, child := range folder.Children(-1, 0) {
		b := child.Base()
		switch c := child.(type) {
		case *objectstore.Folder:
			fmt.Fprintf(w, "%s%s/ [%s]\n", indent, b.Name, b.ID)
			printChildren(w, c, depth+1, showVersions)
		case *objectstore.VersionedDocument:
			status := ""
			if c.IsCheckedOut() {
				status = fmt.Sprintf(" (checked out by %s)", c.CheckedOutBy())
			}
			fmt.Fprintf(w, "%s%s [%s]%s\n", indent, b.Name, b.ID, status)
			if showVersions {
				for _, v := range c.Versions() {
					fmt.Fprintf(w, "%s  @%s [%s] %s\n", indent, v.VersionLabel, v.ID, v.CreatedBy)
				}
			}
		default:
			fmt.Fprintf(w, "%s%s [%s]\n", indent, b.Name, b.ID)
		}
	}
}

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print repository statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(cmd)
			if err != nil {
				return err
			}

			var folders, documents, versions int
			for _, id := range store.GetIDs() {
				obj, ok := store.GetObjectByID(id)
				if !ok {
					continue
				}
				switch obj.(type) {
				case *objectstore.Folder:
					folders++
				case *objectstore.DocumentVersion:
					versions++
				default:
					documents++
				}
			}
			checkedOut, err := store.GetCheckedOutDocuments("")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Repository:   %s\n", store.RepositoryID())
			fmt.Fprintf(out, "Root folder:  %s\n", store.RootFolder().ID)
			fmt.Fprintf(out, "Objects:      %d\n", store.GetObjectCount())
			fmt.Fprintf(out, "Folders:      %d\n", folders)
			fmt.Fprintf(out, "Documents:    %d\n", documents)
			fmt.Fprintf(out, "Versions:     %d\n", versions)
			fmt.Fprintf(out, "Checked out:  %d\n", len(checkedOut))
			return nil
		},
	}
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the loaded tree as a normalized seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(cmd)
			if err != nil {
				return err
			}
			return seed.Write(cmd.OutOrStdout(), seed.Export(store))
		},
	}
}

// NewCheckedOutCommand creates the checkedout command
func NewCheckedOutCommand() *cobra.Command {
	var orderBy string

	cmd := &cobra.Command{
		Use:   "checkedout",
		Short: "List checked out documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(cmd)
			if err != nil {
				return err
			}

			docs, err := store.GetCheckedOutDocuments(orderBy)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, d := range docs {
				fmt.Fprintf(out, "%s\t%s\t%s\n", d.ID, strings.Join(store.Paths(d), ","), d.CheckedOutBy())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&orderBy, "order-by", "", `sort order, e.g. "cmis:name DESC"`)
	return cmd
}
