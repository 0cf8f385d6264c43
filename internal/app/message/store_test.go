package message

import (
	"fmt"
	"sync"
	"testing"

	"roomchat/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAdd(t *testing.T) {
	t.Run("creates a message with fresh state", func(t *testing.T) {
		store := NewStore()

		msg, err := store.Add("alice", "hello", "general", "")
		require.NoError(t, err)
		require.NotNil(t, msg)

		assert.NotEmpty(t, msg.ID)
		assert.Equal(t, "alice", msg.Author)
		assert.Equal(t, "hello", msg.Text)
		assert.Equal(t, "general", msg.Room)
		assert.Positive(t, msg.Timestamp)
		assert.False(t, msg.Edited)
		assert.False(t, msg.Deleted)
		assert.Empty(t, msg.EditHistory)
		assert.Empty(t, msg.ReplyIDs)
	})

	t.Run("rejects empty required fields", func(t *testing.T) {
		store := NewStore()

		for _, tc := range []struct{ author, text, room string }{
			{"", "hi", "general"},
			{"alice", "", "general"},
			{"alice", "hi", ""},
		} {
			_, err := store.Add(tc.author, tc.text, tc.room, "")
			assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
		}
	})

	t.Run("rejects a reply to an unknown parent", func(t *testing.T) {
		store := NewStore()

		_, err := store.Add("alice", "orphan", "general", "no-such-id")
		assert.ErrorIs(t, err, apperrors.ErrParentNotFound)
	})

	t.Run("links a reply into the parent atomically", func(t *testing.T) {
		store := NewStore()

		parent, err := store.Add("alice", "root", "general", "")
		require.NoError(t, err)

		reply, err := store.Add("bob", "reply", "general", parent.ID)
		require.NoError(t, err)
		assert.Equal(t, parent.ID, reply.ParentID)

		got := store.GetByID(parent.ID)
		require.NotNil(t, got)
		assert.Equal(t, []string{reply.ID}, got.ReplyIDs)
	})

	t.Run("ids are pairwise distinct", func(t *testing.T) {
		store := NewStore()

		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			msg, err := store.Add("alice", fmt.Sprintf("message %d", i), "general", "")
			require.NoError(t, err)
			assert.False(t, seen[msg.ID], "duplicate id %s", msg.ID)
			seen[msg.ID] = true
		}
	})

	t.Run("concurrent adds all succeed with distinct ids", func(t *testing.T) {
		store := NewStore()

		var wg sync.WaitGroup
		ids := make(chan string, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				msg, err := store.Add("alice", fmt.Sprintf("concurrent %d", n), "general", "")
				if assert.NoError(t, err) {
					ids <- msg.ID
				}
			}(i)
		}
		wg.Wait()
		close(ids)

		seen := make(map[string]bool)
		for id := range ids {
			assert.False(t, seen[id])
			seen[id] = true
		}
		assert.Len(t, seen, 10)
		assert.Len(t, store.ListForRoom("general"), 10)
	})
}

func TestStoreEdit(t *testing.T) {
	t.Run("replaces text and records history", func(t *testing.T) {
		store := NewStore()
		msg, _ := store.Add("alice", "first", "general", "")

		edited, err := store.Edit(msg.ID, "second", "alice")
		require.NoError(t, err)
		require.NotNil(t, edited)

		assert.Equal(t, "second", edited.Text)
		assert.True(t, edited.Edited)
		require.Len(t, edited.EditHistory, 1)
		assert.Equal(t, "first", edited.EditHistory[0].Text)
		assert.Equal(t, msg.Timestamp, edited.EditHistory[0].Timestamp)
		assert.Greater(t, edited.Timestamp, msg.Timestamp)
	})

	t.Run("history timestamps never decrease", func(t *testing.T) {
		store := NewStore()
		msg, _ := store.Add("alice", "v0", "general", "")

		for i := 1; i <= 5; i++ {
			_, err := store.Edit(msg.ID, fmt.Sprintf("v%d", i), "alice")
			require.NoError(t, err)
		}

		got := store.GetByID(msg.ID)
		require.Len(t, got.EditHistory, 5)
		for i := 1; i < len(got.EditHistory); i++ {
			assert.LessOrEqual(t, got.EditHistory[i-1].Timestamp, got.EditHistory[i].Timestamp)
		}
	})

	t.Run("returns nil for a non-author without touching state", func(t *testing.T) {
		store := NewStore()
		msg, _ := store.Add("alice", "mine", "general", "")

		edited, err := store.Edit(msg.ID, "stolen", "mallory")
		require.NoError(t, err)
		assert.Nil(t, edited)

		got := store.GetByID(msg.ID)
		assert.Equal(t, "mine", got.Text)
		assert.False(t, got.Edited)
		assert.Empty(t, got.EditHistory)
	})

	t.Run("structural failures", func(t *testing.T) {
		store := NewStore()
		msg, _ := store.Add("alice", "text", "general", "")

		_, err := store.Edit("", "new", "alice")
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

		_, err = store.Edit(msg.ID, "", "alice")
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

		_, err = store.Edit("unknown", "new", "alice")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		_, delErr := store.Delete(msg.ID, "alice")
		require.NoError(t, delErr)
		_, err = store.Edit(msg.ID, "new", "alice")
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

func TestStoreDelete(t *testing.T) {
	t.Run("soft-deletes but retains the record", func(t *testing.T) {
		store := NewStore()
		msg, _ := store.Add("alice", "secret", "general", "")

		ok, err := store.Delete(msg.ID, "alice")
		require.NoError(t, err)
		assert.True(t, ok)

		got := store.GetByID(msg.ID)
		require.NotNil(t, got, "deleted record must stay resolvable")
		assert.True(t, got.Deleted)
		assert.Equal(t, DeletedPlaceholder, got.Text)
	})

	t.Run("non-author gets false and state is untouched", func(t *testing.T) {
		store := NewStore()
		msg, _ := store.Add("alice", "mine", "general", "")

		ok, err := store.Delete(msg.ID, "mallory")
		require.NoError(t, err)
		assert.False(t, ok)

		got := store.GetByID(msg.ID)
		assert.False(t, got.Deleted)
		assert.Equal(t, "mine", got.Text)

		// also false after the author deletes it
		_, err = store.Delete(msg.ID, "alice")
		require.NoError(t, err)
		ok, err = store.Delete(msg.ID, "mallory")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown id is a distinguishable failure", func(t *testing.T) {
		store := NewStore()
		_, err := store.Delete("unknown", "alice")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("deleted messages leave room listings but replies survive", func(t *testing.T) {
		store := NewStore()
		parent, _ := store.Add("alice", "root", "general", "")
		reply, _ := store.Add("bob", "child", "general", parent.ID)

		_, err := store.Delete(parent.ID, "alice")
		require.NoError(t, err)

		listed := store.ListForRoom("general")
		require.Len(t, listed, 1)
		assert.Equal(t, reply.ID, listed[0].ID)

		got := store.GetByID(reply.ID)
		assert.Equal(t, parent.ID, got.ParentID)
	})
}

func TestStoreListForRoom(t *testing.T) {
	store := NewStore()
	m1, _ := store.Add("alice", "one", "general", "")
	m2, _ := store.Add("bob", "two", "general", "")
	store.Add("carol", "elsewhere", "random", "")

	listed := store.ListForRoom("general")
	require.Len(t, listed, 2)
	assert.Equal(t, m1.ID, listed[0].ID)
	assert.Equal(t, m2.ID, listed[1].ID)
	assert.LessOrEqual(t, listed[0].Timestamp, listed[1].Timestamp)

	assert.Empty(t, store.ListForRoom("empty-room"))
}

func TestStoreListForRoomIsolation(t *testing.T) {
	store := NewStore()
	original, _ := store.Add("alice", "original", "general", "")

	listed := store.ListForRoom("general")
	require.Len(t, listed, 1)
	listed[0].Text = "tampered"
	listed[0].Author = "mallory"
	listed[0].EditHistory = append(listed[0].EditHistory, EditEntry{Text: "fake"})
	listed[0].ReplyIDs = append(listed[0].ReplyIDs, "fake-id")

	got := store.GetByID(original.ID)
	require.NotNil(t, got)
	assert.Equal(t, "original", got.Text)
	assert.Equal(t, "alice", got.Author)
	assert.Empty(t, got.EditHistory)
	assert.Empty(t, got.ReplyIDs)
}

func TestStoreGetThread(t *testing.T) {
	t.Run("builds the nested view", func(t *testing.T) {
		store := NewStore()
		root, _ := store.Add("alice", "root", "general", "")
		r1, _ := store.Add("bob", "first", "general", root.ID)
		store.Add("carol", "nested", "general", r1.ID)

		thread := store.GetThread(root.ID)
		require.NotNil(t, thread)
		require.Len(t, thread.Replies, 1)
		assert.Equal(t, r1.ID, thread.Replies[0].ID)
		require.Len(t, thread.Replies[0].Replies, 1)
		assert.Equal(t, "nested", thread.Replies[0].Replies[0].Text)
	})

	t.Run("filters deleted descendants at every level", func(t *testing.T) {
		store := NewStore()
		root, _ := store.Add("alice", "root", "general", "")
		keep, _ := store.Add("bob", "keep", "general", root.ID)
		gone, _ := store.Add("carol", "gone", "general", root.ID)
		store.Add("dave", "nested under gone", "general", gone.ID)

		_, err := store.Delete(gone.ID, "carol")
		require.NoError(t, err)

		thread := store.GetThread(root.ID)
		require.Len(t, thread.Replies, 1)
		assert.Equal(t, keep.ID, thread.Replies[0].ID)
	})

	t.Run("unknown id yields nil", func(t *testing.T) {
		store := NewStore()
		assert.Nil(t, store.GetThread("unknown"))
	})
}

func TestStoreThreadDepth(t *testing.T) {
	store := NewStore()

	t.Run("unknown id is -1", func(t *testing.T) {
		assert.Equal(t, -1, store.ThreadDepth("unknown"))
	})

	t.Run("leaf is 0", func(t *testing.T) {
		leaf, _ := store.Add("alice", "leaf", "general", "")
		assert.Equal(t, 0, store.ThreadDepth(leaf.ID))
	})

	t.Run("chain of four is depth 3", func(t *testing.T) {
		root, _ := store.Add("alice", "root", "general", "")
		l1, _ := store.Add("bob", "l1", "general", root.ID)
		l2, _ := store.Add("carol", "l2", "general", l1.ID)
		store.Add("dave", "l3", "general", l2.ID)

		assert.Equal(t, 3, store.ThreadDepth(root.ID))
	})

	t.Run("branches take the max, not the sum", func(t *testing.T) {
		root, _ := store.Add("alice", "root", "general", "")
		store.Add("bob", "short branch", "general", root.ID)
		long, _ := store.Add("carol", "long branch", "general", root.ID)
		store.Add("dave", "long leaf", "general", long.ID)

		assert.Equal(t, 2, store.ThreadDepth(root.ID))
	})

	t.Run("deleted replies do not count", func(t *testing.T) {
		root, _ := store.Add("alice", "root", "general", "")
		only, _ := store.Add("bob", "only reply", "general", root.ID)
		_, err := store.Delete(only.ID, "bob")
		require.NoError(t, err)

		assert.Equal(t, 0, store.ThreadDepth(root.ID))
	})
}

func TestStoreSearch(t *testing.T) {
	t.Run("finds matches at every level exactly once", func(t *testing.T) {
		store := NewStore()
		root, _ := store.Add("alice", "welcome thread", "general", "")
		for i := 0; i < 5; i++ {
			reply, _ := store.Add("bob", fmt.Sprintf("keyword reply %d", i), "general", root.ID)
			for j := 0; j < 3; j++ {
				store.Add("carol", fmt.Sprintf("nested %d.%d", i, j), "general", reply.ID)
			}
		}

		results := store.Search("keyword", "general")
		assert.Len(t, results, 5)
	})

	t.Run("is case-insensitive", func(t *testing.T) {
		store := NewStore()
		store.Add("alice", "Hello World", "general", "")

		assert.Len(t, store.Search("hello", "general"), 1)
		assert.Len(t, store.Search("WORLD", "general"), 1)
	})

	t.Run("skips deleted messages", func(t *testing.T) {
		store := NewStore()
		msg, _ := store.Add("alice", "find me", "general", "")
		_, err := store.Delete(msg.ID, "alice")
		require.NoError(t, err)

		assert.Empty(t, store.Search("find", "general"))
	})

	t.Run("scoped to the room", func(t *testing.T) {
		store := NewStore()
		store.Add("alice", "needle here", "general", "")
		store.Add("bob", "needle there", "random", "")

		assert.Len(t, store.Search("needle", "general"), 1)
	})
}

func TestStoreReadReceipts(t *testing.T) {
	t.Run("counter starts at zero and increments", func(t *testing.T) {
		store := NewStore()
		msg, _ := store.Add("alice", "hello", "general", "")

		assert.Equal(t, 0, store.ReadReceiptCount(msg.ID))
		assert.Equal(t, 1, store.IncrementReadReceipt(msg.ID))
		assert.Equal(t, 2, store.IncrementReadReceipt(msg.ID))
		assert.Equal(t, 2, store.ReadReceiptCount(msg.ID))
	})

	t.Run("ten concurrent increments total exactly ten", func(t *testing.T) {
		store := NewStore()
		msg, _ := store.Add("alice", "hello", "general", "")

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.IncrementReadReceipt(msg.ID)
			}()
		}
		wg.Wait()

		assert.Equal(t, 10, store.ReadReceiptCount(msg.ID))
	})
}

func TestStoreClear(t *testing.T) {
	store := NewStore()
	msg, _ := store.Add("alice", "hello", "general", "")
	store.IncrementReadReceipt(msg.ID)

	store.Clear()

	assert.Nil(t, store.GetByID(msg.ID))
	assert.Empty(t, store.ListForRoom("general"))
	assert.Equal(t, 0, store.ReadReceiptCount(msg.ID))
}
