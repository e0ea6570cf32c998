// Package cli is a line-oriented front end for the checkout coordinator.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jcmexdev/storefront/internal/coordinator"
	"github.com/jcmexdev/storefront/internal/coordinator/checkoutlog"
	"github.com/jcmexdev/storefront/internal/storefront/model"
)

var errQuit = errors.New("quit")

// HistorySource reads back the checkout journal.
type HistorySource interface {
	Session(ctx context.Context, sessionID string) ([]checkoutlog.Entry, error)
	ByOrder(ctx context.Context, orderID string) (*checkoutlog.Entry, error)
}

// Shell reads commands from in and prints results to out.
type Shell struct {
	coord   *coordinator.Coordinator
	history HistorySource // nil when the journal is disabled
	in      io.Reader
	out     io.Writer
}

func NewShell(coord *coordinator.Coordinator, in io.Reader, out io.Writer) *Shell {
	return &Shell{coord: coord, in: in, out: out}
}

// WithHistory enables the history and order commands.
func (s *Shell) WithHistory(h HistorySource) *Shell {
	s.history = h
	return s
}

type command struct {
	usage string
	run   func(s *Shell, ctx context.Context, args []string) error
}

var commands map[string]command

// commands is filled in init because help reads it.
func init() {
	commands = map[string]command{
		"help":     {"help", (*Shell).help},
		"products": {"products", (*Shell).products},
		"preview":  {"preview <n|id>", (*Shell).preview},
		"add":      {"add <n|id>", (*Shell).add},
		"remove":   {"remove <n|id>", (*Shell).remove},
		"cart":     {"cart", (*Shell).cart},
		"checkout": {"checkout", (*Shell).checkout},
		"delivery": {"delivery <card|cash> <address>", (*Shell).delivery},
		"contacts": {"contacts <email> <phone>", (*Shell).contacts},
		"submit":   {"submit", (*Shell).submit},
		"back":     {"back <step>", (*Shell).back},
		"close":    {"close", (*Shell).closeStep},
		"dismiss":  {"dismiss", (*Shell).dismiss},
		"reset":    {"reset", (*Shell).reset},
		"state":    {"state", (*Shell).state},
		"history":  {"history", (*Shell).showHistory},
		"order":    {"order <id>", (*Shell).showOrder},
		"quit":     {"quit", func(*Shell, context.Context, []string) error { return errQuit }},
	}
}

// Run processes commands until quit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	s.prompt()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if quit := s.Exec(ctx, scanner.Text()); quit {
			return nil
		}
		s.prompt()
	}
	return scanner.Err()
}

// Exec runs one command line and reports whether the shell should stop.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, ok := commands[strings.ToLower(fields[0])]
	if !ok {
		s.printf("unknown command %q, type help\n", fields[0])
		return false
	}
	err := cmd.run(s, ctx, fields[1:])
	if errors.Is(err, errQuit) {
		return true
	}
	if err != nil {
		s.report(err)
	}
	return false
}

func (s *Shell) prompt() {
	s.printf("[%s] > ", s.coord.State())
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// report prints err and any field errors the coordinator holds for the step.
func (s *Shell) report(err error) {
	var verr *coordinator.ValidationError
	var terr *coordinator.TransportError
	switch {
	case errors.As(err, &verr), errors.Is(err, coordinator.ErrStepIncomplete):
		s.printf("cannot continue:\n")
	case errors.As(err, &terr):
		s.printf("order was not accepted: %s\n", terr.Error())
		return
	default:
		s.printf("error: %s\n", err)
		return
	}

	errs := s.coord.StepErrors()
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)
	for _, f := range fields {
		s.printf("  %s: %s\n", f, errs[model.Field(f)])
	}
}

func (s *Shell) help(context.Context, []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.printf("  %s\n", commands[name].usage)
	}
	return nil
}

func (s *Shell) products(context.Context, []string) error {
	products := s.coord.Products()
	if len(products) == 0 {
		s.printf("the catalog is empty\n")
		return nil
	}
	for i, p := range products {
		s.printf("%s\n", productLine(i, p, s.coord.InCart(p.ID)))
	}
	return nil
}

// resolve accepts a 1-based catalog position or a product id.
func (s *Shell) resolve(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected one product number or id")
	}
	if n, err := strconv.Atoi(args[0]); err == nil {
		products := s.coord.Products()
		if n < 1 || n > len(products) {
			return "", fmt.Errorf("no product number %d", n)
		}
		return products[n-1].ID, nil
	}
	return args[0], nil
}

func (s *Shell) preview(ctx context.Context, args []string) error {
	id, err := s.resolve(args)
	if err != nil {
		return err
	}
	p, err := s.coord.PreviewProduct(ctx, id)
	if err != nil {
		return err
	}
	s.printf("%s\n  category: %s\n  price: %s\n  %s\n", p.Title, p.Category, FormatPrice(p.Price), p.Description)
	switch {
	case !p.Purchasable():
		s.printf("  not for sale\n")
	case s.coord.InCart(p.ID):
		s.printf("  in cart, use remove to take it out\n")
	default:
		s.printf("  use add to buy\n")
	}
	return nil
}

func (s *Shell) add(ctx context.Context, args []string) error {
	id, err := s.resolve(args)
	if err != nil {
		return err
	}
	if err := s.coord.AddToCart(ctx, id); err != nil {
		return err
	}
	s.printf("cart: %d items, %s\n", s.coord.CartCount(), FormatAmount(s.coord.CartTotal()))
	return nil
}

func (s *Shell) remove(ctx context.Context, args []string) error {
	id, err := s.resolve(args)
	if err != nil {
		return err
	}
	if err := s.coord.RemoveFromCart(ctx, id); err != nil {
		return err
	}
	s.printf("cart: %d items, %s\n", s.coord.CartCount(), FormatAmount(s.coord.CartTotal()))
	return nil
}

func (s *Shell) cart(ctx context.Context, _ []string) error {
	if err := s.coord.OpenCart(ctx); err != nil {
		return err
	}
	items := s.coord.CartItems()
	if len(items) == 0 {
		s.printf("the cart is empty\n")
	}
	for i, p := range items {
		s.printf("%d. %s %s\n", i+1, p.Title, FormatPrice(p.Price))
	}
	s.printf("total: %s\n", FormatAmount(s.coord.CartTotal()))
	if s.coord.CanProceedToDelivery() {
		s.printf("type checkout to continue\n")
	}
	return nil
}

func (s *Shell) checkout(ctx context.Context, _ []string) error {
	if err := s.coord.ProceedToDelivery(ctx); err != nil {
		return err
	}
	s.printf("delivery: choose card or cash and enter the address\n")
	return nil
}

func (s *Shell) delivery(ctx context.Context, args []string) error {
	d := coordinator.DeliveryDetails{}
	if len(args) > 0 {
		if p, ok := model.ParsePayment(args[0]); ok {
			d.Payment = p
		}
		d.Address = strings.Join(args[1:], " ")
	}
	if err := s.coord.ProceedToContacts(ctx, d); err != nil {
		return err
	}
	s.printf("contacts: enter email and phone\n")
	return nil
}

func (s *Shell) contacts(ctx context.Context, args []string) error {
	d := coordinator.ContactDetails{}
	if len(args) > 0 {
		d.Email = args[0]
		d.Phone = strings.Join(args[1:], " ")
	}
	return s.send(ctx, d)
}

// submit retries with the contact details already on the buyer record.
func (s *Shell) submit(ctx context.Context, _ []string) error {
	b := s.coord.Buyer()
	return s.send(ctx, coordinator.ContactDetails{Email: b.Email, Phone: b.Phone})
}

func (s *Shell) send(ctx context.Context, d coordinator.ContactDetails) error {
	s.printf("sending order...\n")
	conf, err := s.coord.SubmitOrder(ctx, d)
	if err != nil {
		return err
	}
	s.printf("order %s placed, charged %s\n", conf.OrderID, FormatAmount(conf.Total))
	return nil
}

func (s *Shell) back(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("expected a step: browsing, cart_review, delivery")
	}
	to, ok := coordinator.ParseState(args[0])
	if !ok {
		return fmt.Errorf("unknown step %q", args[0])
	}
	return s.coord.Back(ctx, to)
}

func (s *Shell) closeStep(ctx context.Context, _ []string) error {
	return s.coord.Close(ctx)
}

func (s *Shell) dismiss(ctx context.Context, _ []string) error {
	return s.coord.DismissConfirmation(ctx)
}

func (s *Shell) reset(ctx context.Context, _ []string) error {
	return s.coord.Reset(ctx)
}

func (s *Shell) state(context.Context, []string) error {
	b := s.coord.Buyer()
	s.printf("step: %s\ncart: %d items, %s\n", s.coord.State(), s.coord.CartCount(), FormatAmount(s.coord.CartTotal()))
	s.printf("buyer: payment=%s address=%q email=%q phone=%q\n", orDash(string(b.Payment)), b.Address, b.Email, b.Phone)
	if conf, ok := s.coord.Confirmation(); ok {
		s.printf("last order: %s, %s\n", conf.OrderID, FormatAmount(conf.Total))
	}
	return nil
}

var errNoJournal = errors.New("checkout journal is disabled, set CHECKOUT_LOG_PATH")

func (s *Shell) showHistory(ctx context.Context, _ []string) error {
	if s.history == nil {
		return errNoJournal
	}
	entries, err := s.history.Session(ctx, s.coord.SessionID())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		s.printf("no transitions yet\n")
	}
	for _, e := range entries {
		s.printEntry(e)
	}
	return nil
}

// showOrder looks up the journal entry that confirmed an order.
func (s *Shell) showOrder(ctx context.Context, args []string) error {
	if s.history == nil {
		return errNoJournal
	}
	if len(args) != 1 {
		return errors.New("usage: order <id>")
	}
	e, err := s.history.ByOrder(ctx, args[0])
	if err != nil {
		return err
	}
	s.printf("session %s\n", e.SessionID)
	s.printEntry(*e)
	if e.TraceID != "" {
		s.printf("trace %s\n", e.TraceID)
	}
	return nil
}

func (s *Shell) printEntry(e checkoutlog.Entry) {
	s.printf("%s  %s -> %s", e.CreatedAt.Format("15:04:05"), e.From, e.To)
	if e.OrderID != "" {
		s.printf("  order=%s", e.OrderID)
	}
	if e.Detail != "" {
		s.printf("  %s", e.Detail)
	}
	s.printf("\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
