package notify

import (
	"bytes"
	"context"
	"testing"

	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/entities"

	"github.com/stretchr/testify/require"
)

func TestTerminalMarksDestructiveNotifications(t *testing.T) {
	var out bytes.Buffer
	terminal := NewTerminal(&out)

	terminal.Notify(context.Background(), entities.Notification{
		Title:       "Negócio fechado!",
		Description: "Valor registrado: R$ 200.00",
		Variant:     entities.VariantDefault,
	})
	terminal.Notify(context.Background(), entities.Notification{
		Title:   "Erro ao fechar negócio",
		Variant: entities.VariantDestructive,
	})

	require.Equal(t,
		"[ok] Negócio fechado!\n     Valor registrado: R$ 200.00\n[erro] Erro ao fechar negócio\n",
		out.String(),
	)
}

func TestFanoutDeliversToAll(t *testing.T) {
	first := &Recorder{}
	second := &Recorder{}
	fanout := Fanout{first, second}

	fanout.Notify(context.Background(), entities.Notification{Title: "x"})

	require.Len(t, first.Notifications(), 1)
	require.Len(t, second.Notifications(), 1)
}
