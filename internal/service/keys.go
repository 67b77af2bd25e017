package service

import "strconv"

// Key schema: `<entity>:<id>:<attribute>` everywhere, plus a handful of
// global keys. All components share this one keyspace.
const (
	keyNextUserID     = "global:nextUserId"
	keyNextPostID     = "global:nextPostId"
	keyGlobalUsers    = "global:users"
	keyGlobalTimeline = "global:timeline"

	// usernameByIDPattern feeds the store's sort-by-pattern primitive.
	usernameByIDPattern = "uid:*:username"
)

func keyUsername(userID int64) string {
	return "uid:" + strconv.FormatInt(userID, 10) + ":username"
}

func keyPassword(userID int64) string {
	return "uid:" + strconv.FormatInt(userID, 10) + ":password"
}

func keyCurrentToken(userID int64) string {
	return "uid:" + strconv.FormatInt(userID, 10) + ":auth"
}

func keyFollowers(userID int64) string {
	return "uid:" + strconv.FormatInt(userID, 10) + ":followers"
}

func keyFollowing(userID int64) string {
	return "uid:" + strconv.FormatInt(userID, 10) + ":following"
}

func keyFeed(userID int64) string {
	return "uid:" + strconv.FormatInt(userID, 10) + ":posts"
}

func keyUsernameID(username string) string {
	return "username:" + username + ":id"
}

func keyPost(postID int64) string {
	return "post:" + strconv.FormatInt(postID, 10)
}

func keyToken(token string) string {
	return "auth:" + token
}
