package registry

import (
	"sync"

	"github.com/google/uuid"
)

// Session - живое подключение, которому можно отправить кадр.
// Send не должен блокироваться: медленный клиент теряет кадр,
// актуальное состояние он доберет из истории при переподключении.
type Session interface {
	Send(frame []byte) error
}

// Registry хранит членство живых сессий в группах рассылки.
// Ключи групп: "chat:<room>" и "notify:<userID>".
// Реестр не является границей надежности - это забота хранилища событий.
type Registry interface {
	// Join идемпотентен: повторное добавление - no-op
	Join(groupKey string, session Session)
	Leave(groupKey string, session Session)
	// MembersOf возвращает снимок участников; для неизвестного ключа -
	// пустой срез, не ошибку
	MembersOf(groupKey string) []Session
	// DropAll убирает сессию из всех ее групп; вызывается при дисконнекте
	DropAll(session Session)
}

func ChatGroup(roomName string) string {
	return "chat:" + roomName
}

func NotifyGroup(userID uuid.UUID) string {
	return "notify:" + userID.String()
}

type inMemoryRegistry struct {
	mu sync.RWMutex
	// groupKey -> сессии
	groups map[string]map[Session]struct{}
	// обратный индекс: сессия -> ее группы, чтобы DropAll был
	// O(групп сессии), а не O(всех групп)
	sessions map[Session]map[string]struct{}
}

func NewInMemory() Registry {
	return &inMemoryRegistry{
		groups:   make(map[string]map[Session]struct{}),
		sessions: make(map[Session]map[string]struct{}),
	}
}

func (r *inMemoryRegistry) Join(groupKey string, session Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	group, ok := r.groups[groupKey]
	if !ok {
		group = make(map[Session]struct{})
		r.groups[groupKey] = group
	}
	group[session] = struct{}{}

	keys, ok := r.sessions[session]
	if !ok {
		keys = make(map[string]struct{})
		r.sessions[session] = keys
	}
	keys[groupKey] = struct{}{}
}

func (r *inMemoryRegistry) Leave(groupKey string, session Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(groupKey, session)
}

func (r *inMemoryRegistry) leaveLocked(groupKey string, session Session) {
	if group, ok := r.groups[groupKey]; ok {
		delete(group, session)
		if len(group) == 0 {
			delete(r.groups, groupKey)
		}
	}
	if keys, ok := r.sessions[session]; ok {
		delete(keys, groupKey)
		if len(keys) == 0 {
			delete(r.sessions, session)
		}
	}
}

func (r *inMemoryRegistry) MembersOf(groupKey string) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group := r.groups[groupKey]
	// снимок: рассылка идет по копии, конкурентные join/leave
	// не ломают итерацию
	members := make([]Session, 0, len(group))
	for session := range group {
		members = append(members, session)
	}
	return members
}

func (r *inMemoryRegistry) DropAll(session Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for groupKey := range r.sessions[session] {
		r.leaveLocked(groupKey, session)
	}
	delete(r.sessions, session)
}
