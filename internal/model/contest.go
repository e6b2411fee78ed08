package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Contest 比赛
type Contest struct {
	ContestNumber         int    `gorm:"column:contestnumber;primaryKey;autoIncrement:false" json:"contestnumber"`
	// 名称区分大小写和重音，按字节比较
	ContestName           string `gorm:"column:contestname;type:varchar(100) COLLATE utf8mb4_bin;not null;uniqueIndex" json:"contestname"`
	ContestStartDate      int64  `gorm:"column:conteststartdate;not null" json:"conteststartdate"`
	ContestDuration       int    `gorm:"column:contestduration;not null" json:"contestduration"`
	ContestLastMileAnswer int    `gorm:"column:contestlastmileanswer" json:"contestlastmileanswer"`
	ContestLastMileScore  int    `gorm:"column:contestlastmilescore" json:"contestlastmilescore"`
	ContestLocalSite      int    `gorm:"column:contestlocalsite;not null" json:"contestlocalsite"`
	ContestPenalty        int    `gorm:"column:contestpenalty;not null" json:"contestpenalty"`
	ContestMaxFileSize    int    `gorm:"column:contestmaxfilesize;not null" json:"contestmaxfilesize"`
	ContestActive         bool   `gorm:"column:contestactive;not null;default:false" json:"contestactive"`
	ContestMainSite       int    `gorm:"column:contestmainsite;not null" json:"contestmainsite"`
	ContestKeys           string `gorm:"column:contestkeys;type:text" json:"contestkeys"`
	ContestUnlockKey      string `gorm:"column:contestunlockkey;size:100" json:"contestunlockkey"`
	ContestMainSiteURL    string `gorm:"column:contestmainsiteurl;size:200" json:"contestmainsiteurl"`
	UpdateTime            int64  `gorm:"column:updatetime;autoUpdateTime" json:"updatetime"`
}

func (Contest) TableName() string {
	return "contesttable"
}

// Validate 校验比赛字段，返回的 validation.Errors 以 JSON 字段名为键
func (c Contest) Validate() error {
	positive := validation.Required.Error("must be a positive number")
	return validation.ValidateStruct(&c,
		validation.Field(&c.ContestNumber, positive, validation.Min(1)),
		validation.Field(&c.ContestName, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&c.ContestStartDate, positive, validation.Min(int64(1))),
		validation.Field(&c.ContestDuration, positive, validation.Min(1)),
		validation.Field(&c.ContestLastMileAnswer, validation.Min(0)),
		validation.Field(&c.ContestLastMileScore, validation.Min(0)),
		validation.Field(&c.ContestLocalSite, positive, validation.Min(1)),
		validation.Field(&c.ContestPenalty, validation.Min(0)),
		validation.Field(&c.ContestMaxFileSize, positive, validation.Min(1)),
		validation.Field(&c.ContestMainSite, positive, validation.Min(1)),
		validation.Field(&c.ContestUnlockKey, validation.RuneLength(0, 100)),
		validation.Field(&c.ContestMainSiteURL, validation.RuneLength(0, 200)),
	)
}

// ContestUpdate 比赛的部分更新，nil 字段保持不变
type ContestUpdate struct {
	ContestName           *string `json:"contestname,omitempty"`
	ContestStartDate      *int64  `json:"conteststartdate,omitempty"`
	ContestDuration       *int    `json:"contestduration,omitempty"`
	ContestLastMileAnswer *int    `json:"contestlastmileanswer,omitempty"`
	ContestLastMileScore  *int    `json:"contestlastmilescore,omitempty"`
	ContestLocalSite      *int    `json:"contestlocalsite,omitempty"`
	ContestPenalty        *int    `json:"contestpenalty,omitempty"`
	ContestMaxFileSize    *int    `json:"contestmaxfilesize,omitempty"`
	ContestMainSite       *int    `json:"contestmainsite,omitempty"`
	ContestKeys           *string `json:"contestkeys,omitempty"`
	ContestUnlockKey      *string `json:"contestunlockkey,omitempty"`
	ContestMainSiteURL    *string `json:"contestmainsiteurl,omitempty"`
}

func (u ContestUpdate) Empty() bool {
	return u.ContestName == nil && u.ContestStartDate == nil && u.ContestDuration == nil &&
		u.ContestLastMileAnswer == nil && u.ContestLastMileScore == nil && u.ContestLocalSite == nil &&
		u.ContestPenalty == nil && u.ContestMaxFileSize == nil && u.ContestMainSite == nil &&
		u.ContestKeys == nil && u.ContestUnlockKey == nil && u.ContestMainSiteURL == nil
}

// Apply 将更新合并到比赛记录上
func (u ContestUpdate) Apply(c *Contest) {
	if v := u.ContestName; v != nil {
		c.ContestName = *v
	}
	if v := u.ContestStartDate; v != nil {
		c.ContestStartDate = *v
	}
	if v := u.ContestDuration; v != nil {
		c.ContestDuration = *v
	}
	if v := u.ContestLastMileAnswer; v != nil {
		c.ContestLastMileAnswer = *v
	}
	if v := u.ContestLastMileScore; v != nil {
		c.ContestLastMileScore = *v
	}
	if v := u.ContestLocalSite; v != nil {
		c.ContestLocalSite = *v
	}
	if v := u.ContestPenalty; v != nil {
		c.ContestPenalty = *v
	}
	if v := u.ContestMaxFileSize; v != nil {
		c.ContestMaxFileSize = *v
	}
	if v := u.ContestMainSite; v != nil {
		c.ContestMainSite = *v
	}
	if v := u.ContestKeys; v != nil {
		c.ContestKeys = *v
	}
	if v := u.ContestUnlockKey; v != nil {
		c.ContestUnlockKey = *v
	}
	if v := u.ContestMainSiteURL; v != nil {
		c.ContestMainSiteURL = *v
	}
}

// Columns 返回需要写入的列，键为数据库列名
func (u ContestUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if v := u.ContestName; v != nil {
		cols["contestname"] = *v
	}
	if v := u.ContestStartDate; v != nil {
		cols["conteststartdate"] = *v
	}
	if v := u.ContestDuration; v != nil {
		cols["contestduration"] = *v
	}
	if v := u.ContestLastMileAnswer; v != nil {
		cols["contestlastmileanswer"] = *v
	}
	if v := u.ContestLastMileScore; v != nil {
		cols["contestlastmilescore"] = *v
	}
	if v := u.ContestLocalSite; v != nil {
		cols["contestlocalsite"] = *v
	}
	if v := u.ContestPenalty; v != nil {
		cols["contestpenalty"] = *v
	}
	if v := u.ContestMaxFileSize; v != nil {
		cols["contestmaxfilesize"] = *v
	}
	if v := u.ContestMainSite; v != nil {
		cols["contestmainsite"] = *v
	}
	if v := u.ContestKeys; v != nil {
		cols["contestkeys"] = *v
	}
	if v := u.ContestUnlockKey; v != nil {
		cols["contestunlockkey"] = *v
	}
	if v := u.ContestMainSiteURL; v != nil {
		cols["contestmainsiteurl"] = *v
	}
	return cols
}
