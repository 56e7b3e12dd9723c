package panel

// Join addresses one signal on the panel. Bool, ushort and string joins are
// separate namespaces, so the same number may be used in each.
type Join uint32

// ListID addresses a slot list (subpage reference list) on the panel
type ListID uint32

// ListSig addresses one field of one slot in a list. Slots and fields are 1-based.
type ListSig struct {
	List  ListID `json:"list"`
	Slot  int    `json:"slot"`
	Field int    `json:"field"`
}

// Bool joins
const (
	JoinRoomIsOn                     Join = 10
	JoinStartPageVisible             Join = 11
	JoinActivityPageVisible          Join = 12
	JoinSourceStagingBarVisible      Join = 13
	JoinCallStagingBarVisible        Join = 14
	JoinSelectASourceVisible         Join = 15
	JoinLogoDefaultVisible           Join = 16
	JoinLogoURLVisible               Join = 17
	JoinNextMeetingModalVisible      Join = 18
	JoinNotificationRibbonVisible    Join = 19
	JoinCallSurfaceVisible           Join = 20
	JoinCallSharedSourceInfoVisible  Join = 21
	JoinCallStopSharingPress         Join = 22
	JoinCallEndAllConfirmVisible     Join = 23
	JoinHeaderActiveCallsListVisible Join = 24
	JoinMeetingsListVisible          Join = 25
	JoinVolumeUpPress                Join = 26
	JoinVolumeDownPress              Join = 27
	JoinVolumeMutePressAndFB         Join = 28
	JoinVolumeDualMuteVisible        Join = 29
	JoinNextMeetingJoinPress         Join = 30
	JoinNextMeetingDismissPress      Join = 31
	JoinHeaderCalendarPress          Join = 32
	JoinHeaderCallStatusPress        Join = 33

	// Modal dialog
	JoinModalVisible        Join = 40
	JoinModalButton1Press   Join = 41
	JoinModalButton2Press   Join = 42
	JoinModalButton1Visible Join = 43
	JoinModalButton2Visible Join = 44
	JoinModalGaugeVisible   Join = 45
	JoinModalCancelVisible  Join = 46
	JoinModalCancelPress    Join = 47

	// Source page managers
	JoinSetTopBoxPageVisible    Join = 60
	JoinSetTopBoxDvrVisible     Join = 61
	JoinSetTopBoxDpadVisible    Join = 62
	JoinSetTopBoxNumericVisible Join = 63
	JoinSetTopBoxPresetsVisible Join = 64
	JoinDiscPlayerPageVisible   Join = 65

	// JoinDefaultPageBase + ui type shows the generic device page
	JoinDefaultPageBase Join = 70

	// Device control buttons
	JoinChannelUp        Join = 100
	JoinChannelDown      Join = 101
	JoinLastChannel      Join = 102
	JoinGuide            Join = 103
	JoinInfo             Join = 104
	JoinExit             Join = 105
	JoinRed              Join = 110
	JoinGreen            Join = 111
	JoinYellow           Join = 112
	JoinBlue             Join = 113
	JoinDPadUp           Join = 120
	JoinDPadDown         Join = 121
	JoinDPadLeft         Join = 122
	JoinDPadRight        Join = 123
	JoinDPadSelect       Join = 124
	JoinMenu             Join = 125
	JoinDvrList          Join = 130
	JoinDvrRecord        Join = 131
	JoinReplay           Join = 132
	JoinKeypadDigit0     Join = 140 // digits 0..9 are 140..149
	JoinKeypadAccessory1 Join = 150
	JoinKeypadAccessory2 Join = 151
	JoinPowerOn          Join = 160
	JoinPowerOff         Join = 161
	JoinPowerToggle      Join = 162
	JoinPlay             Join = 170
	JoinPause            Join = 171
	JoinRewind           Join = 172
	JoinFastForward      Join = 173
	JoinChapterMinus     Join = 174
	JoinChapterPlus      Join = 175
	JoinStop             Join = 176
	JoinRecord           Join = 177
	JoinEject            Join = 178
)

// Ushort joins
const (
	JoinPresentationStagingCaretMode Join = 1
	JoinCallStagingCaretMode         Join = 2
	JoinVolumeSliderValue            Join = 3
	JoinModalTimerGauge              Join = 4
)

// String joins
const (
	JoinCurrentRoomName          Join = 1
	JoinCurrentSourceName        Join = 2
	JoinCurrentSourceIcon        Join = 3
	JoinLogoURL                  Join = 4
	JoinNotificationRibbonText   Join = 5
	JoinCallSharedSourceNameText Join = 6
	JoinMeetingsListIcon         Join = 7
	JoinMeetingsListTitleText    Join = 8
	JoinNextMeetingTitle         Join = 9
	JoinNextMeetingTime          Join = 10
	JoinModalTitle               Join = 20
	JoinModalIcon                Join = 21
	JoinModalMessage             Join = 22
	JoinModalButton1Text         Join = 23
	JoinModalButton2Text         Join = 24
)

// Lists
const (
	ListSourceStaging  ListID = 1
	ListActivityFooter ListID = 2
	ListMeetings       ListID = 3
)
