package rotate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/systmms/oprotate/internal/credsource"
	operrors "github.com/systmms/oprotate/internal/errors"
	"github.com/systmms/oprotate/internal/logging"
	"github.com/systmms/oprotate/internal/onepassword"
)

// Runner executes one rotation run: issuers in input order, credentials
// within an issuer in input order, one update fully submitted before the
// next begins. There is no parallelism across credentials and no retry;
// every failure either skips the credential or aborts the run.
type Runner struct {
	Client *onepassword.Client
	Logger *logging.Logger
	Vault  string
	DryRun bool

	// Out receives the issuer banners and confirmation lines.
	// Defaults to stdout; warnings go through the logger instead.
	Out io.Writer
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

// Run rotates every credential in the batch. The vault index is built
// once up front; each credential then flows through match, fetch, select,
// apply, and report. Skips warn and continue; anything else aborts.
func (r *Runner) Run(ctx context.Context, batch *credsource.Batch) error {
	items, err := r.Client.ListItems(ctx, r.Vault)
	if err != nil {
		return err
	}
	index := NewIndex(items)
	r.Logger.Debug("indexed %d items from vault %s", index.Len(), r.Vault)

	for _, group := range batch.Issuers {
		issuer := strings.ToLower(group.Issuer)
		fmt.Fprintf(r.out(), "Issuer: %s\n", issuer)

		for _, cred := range group.Credentials {
			if err := r.rotateOne(ctx, index, issuer, cred); err != nil {
				var skip operrors.SkipError
				if errors.As(err, &skip) {
					r.Logger.Warn("%s", skip.Error())
					continue
				}
				return err
			}
		}
	}

	return nil
}

// rotateOne drives a single credential through the pipeline. It returns a
// SkipError for the recoverable cases (no match, no fields, no concealed
// candidate) and any other error for fatal ones.
func (r *Runner) rotateOne(ctx context.Context, index *Index, issuer string, cred credsource.Credential) error {
	credName := strings.ToLower(cred.Name)

	summary, ok := index.Lookup(issuer + " " + credName)
	if !ok {
		return operrors.SkipError{
			Issuer:     issuer,
			Credential: credName,
			Vault:      r.Vault,
			Reason:     "not found",
		}
	}

	item, err := r.Client.GetItem(ctx, summary.ID)
	if err != nil {
		return err
	}

	if item.Fields == nil {
		return operrors.SkipError{
			Issuer:     issuer,
			Credential: credName,
			Vault:      r.Vault,
			Reason:     fmt.Sprintf("item %s has no fields", item),
		}
	}

	fieldID, ok := SelectField(item)
	if !ok {
		return operrors.SkipError{
			Issuer:     issuer,
			Credential: credName,
			Vault:      r.Vault,
			Reason:     fmt.Sprintf("unable to find credential field in item %s", item),
		}
	}

	value, err := cred.Value.Reveal()
	if err != nil {
		return fmt.Errorf("failed to unseal value for credential %q: %w", cred.Name, err)
	}

	// Serialization happens in dry-run mode too, so a simulated run still
	// validates that the item round-trips.
	payload, err := Apply(item, fieldID, value)
	if err != nil {
		return err
	}

	if r.DryRun {
		r.Logger.Debug("dry-run: skipping edit of item %s", item.ID)
	} else {
		if err := r.Client.EditItem(ctx, item.ID, payload); err != nil {
			return err
		}
	}

	fmt.Fprintf(r.out(), "placed credential %q into field %q of vault item %s\n",
		cred.Name, item.FieldLabel(fieldID), item)
	return nil
}
