package whatsapp

import (
	"context"
	"sync"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/types"

	"github.com/sentlog/sentlog/internal/model"
)

type groupLookup interface {
	GetGroupInfo(jid types.JID) (*types.GroupInfo, error)
}

type contactLookup interface {
	GetContact(ctx context.Context, user types.JID) (types.ContactInfo, error)
}

type lidLookup interface {
	GetPNForLID(ctx context.Context, lid types.JID) (types.JID, error)
}

var (
	_ groupLookup   = (*whatsmeow.Client)(nil)
	_ contactLookup = (store.ContactStore)(nil)
	_ lidLookup     = (store.LIDStore)(nil)
)

// Directory resolves chat display details. Group names are cached for the
// run and dropped when a rename event arrives.
type Directory struct {
	groups   groupLookup
	contacts contactLookup
	lids     lidLookup

	mu    sync.Mutex
	names map[string]string
}

// NewDirectory builds a directory; lids may be nil when the store has no
// LID mapping.
func NewDirectory(groups groupLookup, contacts contactLookup, lids lidLookup) *Directory {
	return &Directory{groups: groups, contacts: contacts, lids: lids, names: make(map[string]string)}
}

func (d *Directory) GroupName(_ context.Context, chatID string) (string, error) {
	d.mu.Lock()
	name, ok := d.names[chatID]
	d.mu.Unlock()
	if ok {
		return name, nil
	}

	jid, err := types.ParseJID(chatID)
	if err != nil {
		return "", err
	}
	info, err := d.groups.GetGroupInfo(jid)
	if err != nil {
		return "", err
	}

	d.mu.Lock()
	d.names[chatID] = info.Name
	d.mu.Unlock()
	return info.Name, nil
}

// Contact looks up chatID in the contact store, which is keyed by phone
// number. A @lid chat id is first mapped to its phone number when known.
func (d *Directory) Contact(ctx context.Context, chatID string) (*model.Contact, error) {
	jid, err := types.ParseJID(chatID)
	if err != nil {
		return nil, err
	}
	jid = d.phoneNumber(ctx, jid)
	info, err := d.contacts.GetContact(ctx, jid)
	if err != nil {
		return nil, err
	}
	return &model.Contact{
		ID:       chatID,
		PushName: info.PushName,
		FullName: info.FullName,
		Number:   jid.User,
	}, nil
}

// Forget drops a cached group name.
func (d *Directory) Forget(chatID string) {
	d.mu.Lock()
	delete(d.names, chatID)
	d.mu.Unlock()
}

func (d *Directory) phoneNumber(ctx context.Context, jid types.JID) types.JID {
	if jid.Server != types.HiddenUserServer || d.lids == nil {
		return jid
	}
	pn, err := d.lids.GetPNForLID(ctx, jid)
	if err != nil || pn.IsEmpty() {
		return jid
	}
	return pn.ToNonAD()
}
