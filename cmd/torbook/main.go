package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/tomerlv/torbook/internal/api"
	"github.com/tomerlv/torbook/internal/reconcile"
	"github.com/tomerlv/torbook/internal/resolver"
	"github.com/tomerlv/torbook/internal/sched"
	"github.com/tomerlv/torbook/internal/session"
	"github.com/tomerlv/torbook/internal/store"
	"github.com/tomerlv/torbook/pkg/config"
	"github.com/tomerlv/torbook/pkg/logger"
)

const usage = `torbook - appointment scheduling client

Usage:
  torbook <command> [flags]

Commands:
  login        sign in and persist the session
  logout       clear the persisted session
  signup       register a new account
  whoami       show the signed-in account
  meetings     list meetings with resolved names and urgency buckets
  book         reserve a slot
  reschedule   change a meeting's date/time/duration
  cancel       delete a meeting
  services     list the service catalog
  service-add / service-edit / service-rm
  accounts     list registered accounts (admin)
  business     show or edit the business profile
`

type app struct {
	cfg     *config.Config
	session *session.Manager
	client  *api.Client
	store   *store.Store
	rec     *reconcile.Reconciler
	res     *resolver.Resolver
}

func newApp() (*app, error) {
	cfg := config.Load()

	sess := session.NewManager(cfg.Session.Path)
	if err := sess.Init(); err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, sess)
	st := store.New()
	res := resolver.New(st, client)
	engine := sched.New(client, st, cfg.Backend.ConflictToken)
	rec := reconcile.New(engine, client, res, st)

	return &app{cfg: cfg, session: sess, client: client, store: st, rec: rec, res: res}, nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	a, err := newApp()
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.session.Teardown()
	case "signup":
		return a.cmdSignup(ctx, args)
	case "whoami":
		return a.cmdWhoami()
	case "meetings":
		return a.cmdMeetings(ctx)
	case "book":
		return a.cmdBook(ctx, args)
	case "reschedule":
		return a.cmdReschedule(ctx, args)
	case "cancel":
		return a.cmdCancel(ctx, args)
	case "services":
		return a.cmdServices(ctx)
	case "service-add":
		return a.cmdServiceAdd(ctx, args)
	case "service-edit":
		return a.cmdServiceEdit(ctx, args)
	case "service-rm":
		return a.cmdServiceRemove(ctx, args)
	case "accounts":
		return a.cmdAccounts(ctx)
	case "business":
		return a.cmdBusiness(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func printError(err error) {
	var conflict *sched.ConflictError
	var invalid *sched.ValidationError
	switch {
	case errors.As(err, &conflict):
		fmt.Fprintf(os.Stderr, "the requested slot is taken; pick another %s (%s)\n", conflict.Field, conflict.Message)
	case errors.As(err, &invalid):
		fmt.Fprintf(os.Stderr, "invalid %s: %s\n", invalid.Field, invalid.Message)
	case api.IsUnauthorized(err):
		fmt.Fprintln(os.Stderr, "not authorized; run `torbook login` first")
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)
	if *email == "" || *password == "" {
		return errors.New("login requires -email and -password")
	}

	resp, err := a.client.SignIn(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.session.Establish(resp.Token, resp.Account); err != nil {
		return err
	}
	fmt.Printf("signed in as %s <%s>\n", resp.Account.Name, resp.Account.Email)
	return nil
}

func (a *app) cmdSignup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)
	if *name == "" || *email == "" || *password == "" {
		return errors.New("signup requires -name, -email and -password")
	}

	if err := a.client.SignUp(ctx, *name, *email, *password); err != nil {
		return err
	}
	fmt.Println("account created; run `torbook login`")
	return nil
}

func (a *app) cmdWhoami() error {
	account, ok := a.session.Account()
	if !ok {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s <%s>\n", account.Name, account.Email)
	return nil
}

func (a *app) cmdMeetings(ctx context.Context) error {
	if err := a.rec.ReloadAll(ctx); err != nil {
		return err
	}

	meetings := a.store.Meetings()
	if len(meetings) == 0 {
		fmt.Println("no meetings scheduled")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTIME\tDUR\tBUCKET\tSERVICE\tCUSTOMER\tSTATUS")
	for _, m := range meetings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dm\t%s\t%s\t%s\t%s\n",
			m.ID.String(), m.Date.String(), m.Time.String(), m.Duration,
			sched.Classify(m, now), a.res.ServiceLabel(m.ServiceID),
			a.res.AccountLabel(m.UserEmail), m.Status)
	}
	return w.Flush()
}

func (a *app) cmdBook(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	serviceID := fs.String("service", "", "service id")
	date := fs.String("date", "", "date (YYYY-MM-DD)")
	timeOfDay := fs.String("time", "", "hour slot (HH:00)")
	duration := fs.Int("duration", 30, "duration in minutes")
	email := fs.String("email", "", "customer email (defaults to the signed-in account)")
	fs.Parse(args)

	if *email == "" {
		if account, ok := a.session.Account(); ok {
			*email = account.Email
		}
	}

	meeting, err := a.rec.CreateMeeting(ctx, sched.CreateRequest{
		ServiceID: *serviceID,
		UserEmail: *email,
		Date:      *date,
		Time:      *timeOfDay,
		Duration:  *duration,
	})
	if err != nil {
		return err
	}
	fmt.Printf("booked %s at %s for %dm\n", meeting.Date.String(), meeting.Time.String(), meeting.Duration)
	return nil
}

func (a *app) cmdReschedule(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reschedule", flag.ExitOnError)
	id := fs.String("id", "", "meeting id")
	date := fs.String("date", "", "new date (YYYY-MM-DD)")
	timeOfDay := fs.String("time", "", "new time (HH:MM)")
	duration := fs.Int("duration", 0, "new duration in minutes")
	fs.Parse(args)
	if *id == "" {
		return errors.New("reschedule requires -id")
	}

	patch, err := buildMeetingPatch(*date, *timeOfDay, *duration)
	if err != nil {
		return err
	}
	if err := a.rec.UpdateMeeting(ctx, *id, patch); err != nil {
		return err
	}
	fmt.Println("meeting updated")
	return nil
}

func (a *app) cmdCancel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	id := fs.String("id", "", "meeting id")
	fs.Parse(args)
	if *id == "" {
		return errors.New("cancel requires -id")
	}

	if err := a.rec.DeleteMeeting(ctx, *id); err != nil {
		return err
	}
	fmt.Println("meeting deleted")
	return nil
}

func (a *app) cmdServices(ctx context.Context) error {
	if err := a.rec.RefreshServices(ctx); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRODUCER\tDESCRIPTION")
	for _, svc := range a.store.Services() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", svc.ID, svc.Name, svc.ProducerEmail, svc.Description)
	}
	return w.Flush()
}

func (a *app) cmdServiceAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("service-add", flag.ExitOnError)
	name := fs.String("name", "", "service name")
	desc := fs.String("desc", "", "description")
	producer := fs.String("producer", "", "producer email")
	fs.Parse(args)
	if *name == "" {
		return errors.New("service-add requires -name")
	}

	if err := a.rec.CreateService(ctx, api.CreateServiceRequest{
		Name:          *name,
		Description:   *desc,
		ProducerEmail: *producer,
	}); err != nil {
		return err
	}
	fmt.Println("service created")
	return nil
}

func (a *app) cmdServiceEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("service-edit", flag.ExitOnError)
	id := fs.String("id", "", "service id")
	name := fs.String("name", "", "new name")
	desc := fs.String("desc", "", "new description")
	fs.Parse(args)
	if *id == "" {
		return errors.New("service-edit requires -id")
	}

	var patch api.ServicePatch
	if *name != "" {
		patch.Name = name
	}
	if *desc != "" {
		patch.Description = desc
	}
	if err := a.rec.UpdateService(ctx, *id, patch); err != nil {
		return err
	}
	fmt.Println("service updated")
	return nil
}

func (a *app) cmdServiceRemove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("service-rm", flag.ExitOnError)
	id := fs.String("id", "", "service id")
	fs.Parse(args)
	if *id == "" {
		return errors.New("service-rm requires -id")
	}

	if err := a.rec.DeleteService(ctx, *id); err != nil {
		return err
	}
	fmt.Println("service deleted")
	return nil
}

func (a *app) cmdAccounts(ctx context.Context) error {
	if err := a.rec.RefreshAccounts(ctx); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tNAME")
	for _, account := range a.store.Accounts() {
		fmt.Fprintf(w, "%s\t%s\n", account.Email, account.Name)
	}
	return w.Flush()
}

func (a *app) cmdBusiness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("business", flag.ExitOnError)
	name := fs.String("name", "", "new business name")
	desc := fs.String("desc", "", "new description")
	fs.Parse(args)

	if err := a.rec.RefreshBusiness(ctx); err != nil {
		return err
	}
	business, _ := a.store.Business()

	if *name != "" || *desc != "" {
		var patch api.BusinessPatch
		if *name != "" {
			patch.Name = name
		}
		if *desc != "" {
			patch.Description = desc
		}
		if err := a.rec.UpdateBusiness(ctx, business.ID, patch); err != nil {
			return err
		}
		business, _ = a.store.Business()
	}

	fmt.Printf("%s\n%s\nmanager: %s\n", business.Name, business.Description, business.ManagerEmail)
	return nil
}

func buildMeetingPatch(date, timeOfDay string, duration int) (api.MeetingPatch, error) {
	var patch api.MeetingPatch
	if date != "" {
		parsed, err := parseDateFlag(date)
		if err != nil {
			return patch, err
		}
		patch.Date = parsed
	}
	if timeOfDay != "" {
		parsed, err := parseTimeFlag(timeOfDay)
		if err != nil {
			return patch, err
		}
		patch.Time = parsed
	}
	if duration > 0 {
		patch.Duration = &duration
	}
	return patch, nil
}
