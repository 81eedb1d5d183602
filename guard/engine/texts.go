package engine

import (
	"fmt"
	"strings"
)

// DefaultNotice is the last-resort substitute text when neither a personal
// notice nor a global autoresponder is configured.
const DefaultNotice = "Пользователь установил ограничение на ответы к своим сообщениям."

const (
	adviceNoTarget = "❌ Не удалось определить пользователя. Ответьте на его сообщение или укажите @username."
	adviceSelf     = "❌ Вы не можете заблокировать самого себя."
	adviceConflict = "⚠️ Не удалось изменить блокировку, попробуйте ещё раз."

	listEmpty = "📋 В этом чате нет активных блокировок."
	topEmpty  = "🏆 В этом чате ещё никто не отличился."
)

func textBlocked(blocker, blocked string, withNotice bool) string {
	if withNotice {
		return fmt.Sprintf("🔒 %s запретил(а) пользователю %s отвечать на свои сообщения и установил(а) персональный автоответчик.", blocker, blocked)
	}
	return fmt.Sprintf("🔒 %s запретил(а) пользователю %s отвечать на свои сообщения.", blocker, blocked)
}

func textUnblocked(blocker, blocked string) string {
	return fmt.Sprintf("🔓 %s разрешил(а) пользователю %s снова отвечать на свои сообщения.", blocker, blocked)
}

func textExceptionAdded(blocker, allowed string) string {
	return fmt.Sprintf("🔓 %s сделал(а) исключение: %s может отвечать, несмотря на общий запрет.", blocker, allowed)
}

func textExceptionRemoved(blocker, allowed string) string {
	return fmt.Sprintf("🔒 %s убрал(а) исключение для %s.", blocker, allowed)
}

func textGlobalOn(blocker string, withNotice bool) string {
	if withNotice {
		return fmt.Sprintf("🔒 %s запретил(а) всем отвечать на свои сообщения и установил(а) автоответчик.", blocker)
	}
	return fmt.Sprintf("🔒 %s запретил(а) всем отвечать на свои сообщения. Ответьте «Спринг стоп» на сообщение, чтобы сделать исключение.", blocker)
}

func textGlobalOff(blocker string) string {
	return fmt.Sprintf("🔓 %s снова разрешил(а) всем отвечать на свои сообщения.", blocker)
}

// SuppressionNotice is the body posted instead of the suppressed message.
// The platform layer prepends the suppressed sender's mention.
func SuppressionNotice(blockerName, notice string) string {
	return fmt.Sprintf("%s установил(а) для вас следующий ответ:\n\n\"%s\"", blockerName, notice)
}

func formatBlockList(lines []string) string {
	if len(lines) == 0 {
		return listEmpty
	}
	return "📋 Список блокировок в этом чате:\n\n" + strings.Join(lines, "\n")
}
