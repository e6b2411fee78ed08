package util

import (
	"strconv"
)

// ParseContestNumber 解析路径中的比赛编号，必须为正整数
func ParseContestNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, BadRequestf("Invalid contest number: %q", s)
	}
	return n, nil
}
