package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/client/store"
	"github.com/dmitrijs2005/admindash/internal/common"
)

// List fetches a page of users and prints the filtered view. Without an
// argument the current page is reloaded.
func (a *App) List(ctx context.Context, args []string) error {
	page := a.store.Directory.Snapshot().CurrentPage
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("usage: list [page], got %q", args[0])
		}
		page = n
	}

	a.goTo(ctx, page)
	return nil
}

func (a *App) Next(ctx context.Context) error {
	st := a.store.Directory.Snapshot()
	if st.TotalPages > 0 && st.CurrentPage >= st.TotalPages {
		a.println("Already on the last page")
		return nil
	}
	a.goTo(ctx, st.CurrentPage+1)
	return nil
}

func (a *App) Prev(ctx context.Context) error {
	st := a.store.Directory.Snapshot()
	if st.CurrentPage <= 1 {
		a.println("Already on the first page")
		return nil
	}
	a.goTo(ctx, st.CurrentPage-1)
	return nil
}

// Search sets the search term; with no arguments it clears it.
func (a *App) Search(ctx context.Context, args []string) error {
	a.filter.SearchTerm = strings.Join(args, " ")
	a.render()
	return nil
}

func (a *App) Status(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: status <all|active|inactive>")
	}
	f, err := models.ParseStatusFilter(args[0])
	if err != nil {
		return err
	}
	a.filter.Status = f
	a.render()
	return nil
}

func (a *App) Role(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: role <all|admin|user>")
	}
	f, err := models.ParseRoleFilter(args[0])
	if err != nil {
		return err
	}
	a.filter.Role = f
	a.render()
	return nil
}

func (a *App) ResetFilters(ctx context.Context) error {
	a.filter = models.NoFilter()
	a.render()
	return nil
}

// Add prompts for a new user and creates it. The new record is shown at the
// top of the current list.
func (a *App) Add(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	job, err := getSimpleText(a.reader, "Enter job (optional)", a.out)
	if err != nil {
		return err
	}

	a.store.Directory.AddUser(ctx, models.NewUser{
		Name:     name,
		Email:    email,
		Password: string(password),
		Job:      job,
	})

	st := a.store.Directory.Snapshot()
	if a.reportDirectoryError(st) {
		return nil
	}
	if len(st.Records) > 0 {
		r := st.Records[0]
		if r.Local {
			a.printf("User added with local id %d\n", r.ID)
		} else {
			a.printf("User added with id %d\n", r.ID)
		}
	}
	return nil
}

// Update changes the name and/or job of a user. Empty answers keep the
// current value.
func (a *App) Update(ctx context.Context, args []string) error {
	id, err := parseID(args, "update")
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter new name (empty to keep)", a.out)
	if err != nil {
		return err
	}
	job, err := getSimpleText(a.reader, "Enter new job (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if name == "" && job == "" {
		a.println("Nothing to update")
		return nil
	}

	a.store.Directory.UpdateUser(ctx, id, models.UserPatch{Name: name, Job: job})
	if !a.reportDirectoryError(a.store.Directory.Snapshot()) {
		a.printf("User %d updated\n", id)
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete")
	if err != nil {
		return err
	}

	a.store.Directory.DeleteUser(ctx, id)
	if !a.reportDirectoryError(a.store.Directory.Snapshot()) {
		a.printf("User %d deleted\n", id)
	}
	return nil
}

// Find looks up a user among the loaded records.
func (a *App) Find(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: find <email>")
	}
	r, err := a.store.Directory.FindByEmail(args[0])
	if errors.Is(err, common.ErrorNotFound) {
		a.printf("No loaded user with email %s\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}

	a.printTable([]models.UserRecord{r})
	if r.AvatarURL != "" {
		a.printf("Avatar: %s\n", r.AvatarURL)
	}
	return nil
}

// goTo moves the directory to page and loads it. The page stays selected
// when the load fails, so a bare list retries it.
func (a *App) goTo(ctx context.Context, page int) {
	a.store.Directory.SetCurrentPage(page)
	a.store.Directory.FetchUsers(ctx, page)
	a.render()
}

// render prints the filtered view of the loaded page with its pagination
// line and the last error, if any.
func (a *App) render() {
	st := a.store.Directory.Snapshot()
	a.reportDirectoryError(st)

	visible := store.Filter(st.Records, a.filter)
	if len(visible) == 0 {
		a.println("No users to show")
	} else {
		a.printTable(visible)
	}

	line := fmt.Sprintf("Page %d of %d, %d users total", st.CurrentPage, st.TotalPages, st.Total)
	if len(visible) != len(st.Records) {
		line += fmt.Sprintf(", showing %d of %d loaded", len(visible), len(st.Records))
	}
	if f := describeFilter(a.filter); f != "" {
		line += " [" + f + "]"
	}
	a.println(line)
}

func (a *App) printTable(records []models.UserRecord) {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSTATUS\tROLE\tJOB")
	for _, r := range records {
		id := strconv.Itoa(r.ID)
		if r.Local {
			id += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", id, r.FullName(), r.Email, r.Status, r.Role, r.Job)
	}
	_ = tw.Flush()
}

// reportDirectoryError prints the directory failure, if any, and reports
// whether there was one.
func (a *App) reportDirectoryError(st models.DirectoryState) bool {
	if st.Err == nil {
		return false
	}
	a.printf("Error: %s\n", st.Err.Message)
	return true
}

func describeFilter(f models.FilterCriteria) string {
	var parts []string
	if f.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("search %q", f.SearchTerm))
	}
	if f.Status != "" && f.Status != models.FilterAll {
		parts = append(parts, "status "+string(f.Status))
	}
	if f.Role != "" && f.Role != models.FilterAll {
		parts = append(parts, "role "+string(f.Role))
	}
	return strings.Join(parts, ", ")
}

func parseID(args []string, cmd string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s <id>", cmd)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("usage: %s <id>, got %q", cmd, args[0])
	}
	return id, nil
}
